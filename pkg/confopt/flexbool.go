// SPDX-License-Identifier: GPL-3.0-or-later

package confopt

import (
	"fmt"
	"strconv"
	"strings"
)

// FlexBool is a boolean that accepts the usual configuration spellings:
// true/false, yes/no, y/n, on/off, t/f and numbers (non-zero is true).
type FlexBool bool

func (b FlexBool) Bool() bool { return bool(b) }

// ParseFlexBool converts a decoded configuration value into a FlexBool.
func ParseFlexBool(v any) (FlexBool, error) {
	switch v := v.(type) {
	case bool:
		return FlexBool(v), nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		return parseFlexBoolString(v)
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("unsupported boolean value type %T", v)
	}
}

func parseFlexBoolString(s string) (FlexBool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "on", "t":
		return true, nil
	case "false", "no", "n", "off", "f", "":
		return false, nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("invalid boolean value '%s'", s)
}

func (b *FlexBool) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	fb, err := ParseFlexBool(v)
	if err != nil {
		return err
	}
	*b = fb
	return nil
}

func (b FlexBool) MarshalYAML() (any, error) {
	return bool(b), nil
}
