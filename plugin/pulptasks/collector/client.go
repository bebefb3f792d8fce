// SPDX-License-Identifier: GPL-3.0-or-later

package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/valyala/fastjson"

	"github.com/netdata/netdata/go/pulptasks/pkg/web"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/config"
)

// Task is a single entry of the Pulp tasks list.
type Task struct {
	ID    string
	Type  string
	State string
}

// Fetcher returns the current task list.
// A nil slice with a nil error means the server returned nothing.
type Fetcher interface {
	FetchTasks(ctx context.Context) ([]Task, error)
}

const maxBodySize = 32 << 20

func newAPIClient(client *http.Client, request web.RequestConfig) *apiClient {
	return &apiClient{
		httpClient: client,
		request:    request,
	}
}

type apiClient struct {
	httpClient *http.Client
	request    web.RequestConfig
}

func (a *apiClient) FetchTasks(ctx context.Context) ([]Task, error) {
	req, err := web.NewHTTPRequestWithPath(a.request, config.TasksPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request '%s': %v", a.request.URL, err)
	}
	req = req.WithContext(ctx)

	var tasks []Task

	err = web.DoHTTP(a.httpClient).Request(req, func(body io.Reader) error {
		var err error
		tasks, err = parseTasks(io.LimitReader(body, maxBodySize))
		return err
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func parseTasks(body io.Reader) ([]Task, error) {
	bs, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(bs)) == 0 {
		return nil, nil
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(bs)
	if err != nil {
		return nil, err
	}

	switch v.Type() {
	case fastjson.TypeNull:
		return nil, nil
	case fastjson.TypeArray:
	default:
		return nil, fmt.Errorf("expected a JSON array of tasks, got %s", v.Type())
	}

	items, _ := v.Array()
	tasks := make([]Task, 0, len(items))

	for _, item := range items {
		tasks = append(tasks, Task{
			ID:    stringField(item, "task_id"),
			Type:  stringField(item, "task_type"),
			State: stringField(item, "state"),
		})
	}

	return tasks, nil
}

// stringField returns "" for non-objects, missing keys and non-string values.
func stringField(v *fastjson.Value, key string) string {
	if v.Type() != fastjson.TypeObject {
		return ""
	}
	f := v.Get(key)
	if f == nil || f.Type() != fastjson.TypeString {
		return ""
	}
	return string(f.GetStringBytes())
}
