package tools

import (
	"encoding/json"
	"fmt"
)

func parseIntArgument(name string, value any) (int, error) {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a positive integer", name)
		}
		return int(v), nil
	case int:
		if v <= 0 {
			return 0, fmt.Errorf("%s must be a positive integer", name)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be provided", name)
	}
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
