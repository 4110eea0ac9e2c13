package backend

import (
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// stringField returns the string at key, or "" when absent, null or not a string
func stringField(data []byte, key string) string {
	s, err := jsonparser.GetString(data, key)
	if err != nil {
		return ""
	}
	return s
}

// numberField returns the number at key. Numeric strings are accepted
func numberField(data []byte, key string) (float64, bool) {
	value, dataType, _, err := jsonparser.Get(data, key)
	if err != nil {
		return 0, false
	}
	switch dataType {
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return 0, false
		}
		return f, true
	case jsonparser.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(value)), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// firstNumberField tries keys in order and returns the first number found
func firstNumberField(data []byte, keys ...string) (float64, bool) {
	for _, key := range keys {
		if f, ok := numberField(data, key); ok {
			return f, true
		}
	}
	return 0, false
}

// stringArray collects the string elements of the array at key
func stringArray(data []byte, key string) []string {
	out := []string{}
	_, _ = jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || dataType != jsonparser.String {
			return
		}
		if s, err := jsonparser.ParseString(value); err == nil {
			out = append(out, s)
		}
	}, key)
	return out
}
