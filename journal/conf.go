package journal

import (
	"fmt"
	"strconv"
)

// ConfString gets a string parameter from a journal config.
func ConfString(conf map[string]interface{}, key string) (string, bool) {
	s, ok := conf[key].(string)
	return s, ok
}

// ConfInt gets an integer parameter from a journal config.
// Values decoded from JSON or TOML may be float64, int64, or strings;
// all are accepted.
func ConfInt(conf map[string]interface{}, key string) (int, bool, error) {
	v, ok := conf[key]
	if !ok {
		return 0, false, nil
	}
	switch v := v.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		return int(v), true, nil
	case string:
		n, err := strconv.Atoi(v)
		return n, true, err
	}
	return 0, true, fmt.Errorf("parameter %s is a %T, not a number", key, v)
}
