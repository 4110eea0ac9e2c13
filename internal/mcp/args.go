package mcp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/nhs-mcp/pkg/types"
)

// Args holds tool arguments. Values arrive as JSON types from MCP and POST
// bodies, or as strings from query parameters; accessors accept both
type Args map[string]interface{}

// NewArgs converts raw tool arguments, treating nil as empty
func NewArgs(raw interface{}) (Args, bool) {
	if raw == nil {
		return Args{}, true
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		return Args(v), true
	case Args:
		return v, true
	default:
		return nil, false
	}
}

// String returns the string value of key, or defaultValue when absent
func (a Args) String(key, defaultValue string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return defaultValue
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Int returns the integer value of key, or defaultValue when absent or blank
func (a Args) Int(key string, defaultValue int) (int, error) {
	switch v := a[key].(type) {
	case nil:
		return defaultValue, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, types.NewValidationError(key, "%s must be an integer", key)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, types.NewValidationError(key, "%s must be an integer", key)
		}
		return n, nil
	default:
		return 0, types.NewValidationError(key, "%s must be an integer", key)
	}
}

// RequiredFloat returns the numeric value of key
func (a Args) RequiredFloat(key string) (float64, error) {
	switch v := a[key].(type) {
	case nil:
		return 0, types.NewValidationError(key, "%s is required", key)
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, types.NewValidationError(key, "%s is required", key)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, types.NewValidationError(key, "%s must be a number", key)
		}
		return f, nil
	default:
		return 0, types.NewValidationError(key, "%s must be a number", key)
	}
}
