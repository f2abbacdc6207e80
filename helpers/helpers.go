package helpers

import (
	"encoding/json"
	"strconv"
)

// IntToString converts int64 to string.
func IntToString(i int64) string {
	return strconv.FormatInt(i, 10)
}

// BoolToString renders a bool the way export formats expect it.
func BoolToString(b bool) string {
	return strconv.FormatBool(b)
}

// ToJsonString converts any value to JSON string.
func ToJsonString(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
