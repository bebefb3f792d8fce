// SPDX-License-Identifier: GPL-3.0-or-later

// Package config builds the immutable plugin configuration from a YAML file
// with collectd-style keys.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/netdata/netdata/go/pulptasks/pkg/confopt"
	"github.com/netdata/netdata/go/pulptasks/pkg/tlscfg"
	"github.com/netdata/netdata/go/pulptasks/pkg/web"
)

const (
	keyHost          = "Host"
	keyUser          = "User"
	keyPassword      = "Password"
	keyVerbose       = "Verbose"
	keyTLSSkipVerify = "TLSSkipVerify"
	keyTLSCA         = "TLSCA"
	keyTimeout       = "Timeout"
	keyUpdateEvery   = "UpdateEvery"
	keyProxyURL      = "ProxyURL"
	keyProxyUser     = "ProxyUser"
	keyProxyPassword = "ProxyPassword"
	keyForceHTTP2    = "ForceHTTP2"
	keyHeaders       = "Headers"
)

// TasksPath is the Pulp v2 tasks endpoint.
const TasksPath = "/pulp/api/v2/tasks/"

type Logger interface {
	Infof(format string, a ...any)
	Warningf(format string, a ...any)
}

type Config struct {
	Host     string
	User     string
	Password string
	Verbose  bool

	TLSSkipVerify bool
	TLSCA         string
	Timeout       confopt.Duration
	UpdateEvery   int

	ProxyURL      string
	ProxyUser     string
	ProxyPassword string
	ForceHTTP2    bool
	Headers       map[string]string
}

func Default() Config {
	return Config{
		Host:          "localhost",
		User:          "monitoring-user",
		Password:      "msecret",
		Verbose:       false,
		TLSSkipVerify: true,
		Timeout:       confopt.Duration(time.Second * 5),
		UpdateEvery:   10,
	}
}

func (c Config) String() string {
	return fmt.Sprintf("host '%s', user '%s', verbose '%v', tls_skip_verify '%v', timeout '%s', update_every '%d', proxy_url '%s', force_http2 '%v'",
		c.Host, c.User, c.Verbose, c.TLSSkipVerify, c.Timeout, c.UpdateEvery, c.ProxyURL, c.ForceHTTP2)
}

// URL returns the base URL of the Pulp server.
func (c Config) URL() string {
	return "https://" + c.Host
}

// HTTPConfig returns the request and client settings used to poll the tasks endpoint.
func (c Config) HTTPConfig() web.HTTPConfig {
	return web.HTTPConfig{
		RequestConfig: web.RequestConfig{
			URL:           c.URL(),
			Username:      c.User,
			Password:      c.Password,
			ProxyUsername: c.ProxyUser,
			ProxyPassword: c.ProxyPassword,
			Headers:       c.Headers,
		},
		ClientConfig: web.ClientConfig{
			Timeout:    c.Timeout,
			ProxyURL:   c.ProxyURL,
			ForceHTTP2: c.ForceHTTP2,
			TLSConfig: tlscfg.TLSConfig{
				TLSCA:              c.TLSCA,
				InsecureSkipVerify: c.TLSSkipVerify,
			},
		},
	}
}

// Load reads the configuration file at path.
// A missing file yields the defaults, a file that is not a YAML mapping is an error.
func Load(path string, log Logger) (Config, error) {
	if path == "" {
		return finish(Default(), log), nil
	}

	path, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("expanding config path '%s': %w", path, err)
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return finish(Default(), log), nil
		}
		return Config{}, fmt.Errorf("reading config file '%s': %w", path, err)
	}

	cfg, err := Parse(bs, log)
	if err != nil {
		return Config{}, fmt.Errorf("config file '%s': %w", path, err)
	}
	return cfg, nil
}

// Parse applies the keys found in data on top of the defaults.
func Parse(data []byte, log Logger) (Config, error) {
	var items yaml.MapSlice
	if err := yaml.Unmarshal(data, &items); err != nil {
		return Config{}, err
	}
	return finish(Default().apply(items, log), log), nil
}

func finish(cfg Config, log Logger) Config {
	if cfg.Verbose {
		log.Infof("configured with host=%s, user=%s", cfg.Host, cfg.User)
	}
	return cfg
}

// apply processes the keys in order. A key with a bad value is reported and
// leaves the current value in place.
func (c Config) apply(items yaml.MapSlice, log Logger) Config {
	for _, item := range items {
		key, ok := item.Key.(string)
		if !ok {
			log.Warningf("unknown config key: %v", item.Key)
			continue
		}

		var err error
		switch key {
		case keyHost:
			c.Host, err = stringValue(item.Value, c.Host)
		case keyUser:
			c.User, err = stringValue(item.Value, c.User)
		case keyPassword:
			c.Password, err = stringValue(item.Value, c.Password)
		case keyTLSCA:
			c.TLSCA, err = stringValue(item.Value, c.TLSCA)
		case keyVerbose:
			c.Verbose, err = boolValue(item.Value, c.Verbose)
		case keyTLSSkipVerify:
			c.TLSSkipVerify, err = boolValue(item.Value, c.TLSSkipVerify)
		case keyTimeout:
			c.Timeout, err = durationValue(item.Value, c.Timeout)
		case keyUpdateEvery:
			c.UpdateEvery, err = updateEveryValue(item.Value, c.UpdateEvery)
		case keyProxyURL:
			c.ProxyURL, err = proxyURLValue(item.Value, c.ProxyURL)
		case keyProxyUser:
			c.ProxyUser, err = stringValue(item.Value, c.ProxyUser)
		case keyProxyPassword:
			c.ProxyPassword, err = stringValue(item.Value, c.ProxyPassword)
		case keyForceHTTP2:
			c.ForceHTTP2, err = boolValue(item.Value, c.ForceHTTP2)
		case keyHeaders:
			c.Headers, err = headersValue(item.Value, c.Headers)
		default:
			log.Warningf("unknown config key: %s", key)
			continue
		}
		if err != nil {
			log.Warningf("config key %s: %v", key, err)
		}
	}
	return c
}

func stringValue(v any, prev string) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(v), nil
	case nil:
		return prev, errors.New("empty value")
	default:
		return prev, fmt.Errorf("expected a scalar value, got %T", v)
	}
}

func proxyURLValue(v any, prev string) (string, error) {
	s, err := stringValue(v, prev)
	if err != nil {
		return prev, err
	}
	u, err := url.Parse(s)
	if err != nil {
		return prev, err
	}
	if u.Scheme == "" || u.Host == "" {
		return prev, fmt.Errorf("proxy URL '%s' needs a scheme and a host", s)
	}
	return s, nil
}

// headersValue merges a mapping of header names to values into a copy of prev.
func headersValue(v any, prev map[string]string) (map[string]string, error) {
	var items yaml.MapSlice
	switch v := v.(type) {
	case yaml.MapSlice:
		items = v
	case map[any]any:
		for k, val := range v {
			items = append(items, yaml.MapItem{Key: k, Value: val})
		}
	default:
		return prev, fmt.Errorf("expected a mapping, got %T", v)
	}

	headers := make(map[string]string, len(prev)+len(items))
	for k, val := range prev {
		headers[k] = val
	}
	for _, item := range items {
		name, ok := item.Key.(string)
		if !ok || name == "" {
			return prev, fmt.Errorf("invalid header name '%v'", item.Key)
		}
		value, err := stringValue(item.Value, "")
		if err != nil {
			return prev, fmt.Errorf("header %s: %v", name, err)
		}
		headers[name] = value
	}
	return headers, nil
}

func boolValue(v any, prev bool) (bool, error) {
	b, err := confopt.ParseFlexBool(v)
	if err != nil {
		return prev, err
	}
	return b.Bool(), nil
}

// durationValue accepts Go duration strings and plain numbers of seconds.
func durationValue(v any, prev confopt.Duration) (confopt.Duration, error) {
	var d confopt.Duration
	switch v := v.(type) {
	case int:
		d = confopt.Duration(time.Duration(v) * time.Second)
	case float64:
		d = confopt.Duration(v * float64(time.Second))
	case string:
		var err error
		if d, err = confopt.ParseDuration(v); err != nil {
			return prev, err
		}
	default:
		return prev, fmt.Errorf("invalid duration value type %T", v)
	}
	if d <= 0 {
		return prev, fmt.Errorf("duration must be positive, got '%s'", d)
	}
	return d, nil
}

func updateEveryValue(v any, prev int) (int, error) {
	var n int
	switch v := v.(type) {
	case int:
		n = v
	case string:
		var err error
		if n, err = strconv.Atoi(v); err != nil {
			return prev, fmt.Errorf("invalid number '%s'", v)
		}
	default:
		return prev, fmt.Errorf("invalid number value type %T", v)
	}
	if n < 1 {
		return prev, fmt.Errorf("must be at least 1, got %d", n)
	}
	return n, nil
}
