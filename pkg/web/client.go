// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"fmt"
	"io"
	"net/http"
)

// Client performs requests and decodes responses.
// Create one with DoHTTP.
type Client struct {
	client *http.Client
}

// DoHTTP wraps an *http.Client.
func DoHTTP(cl *http.Client) *Client {
	return &Client{client: cl}
}

// Request performs req and passes the response body to parse.
func (c *Client) Request(req *http.Request, parse func(body io.Reader) error) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error on HTTP request to '%s': %w", req.URL, err)
	}
	defer CloseBody(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("'%s' returned HTTP status code: %d", req.URL, resp.StatusCode)
	}

	if parse != nil {
		if err := parse(resp.Body); err != nil {
			return fmt.Errorf("error on parsing response from '%s': %w", req.URL, err)
		}
	}

	return nil
}

// CloseBody drains and closes the response body so the connection can be reused.
func CloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
