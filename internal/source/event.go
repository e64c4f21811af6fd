package source

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// PRNumberFromEvent extracts the pull request number from a GitHub Actions
// event payload such as the file referenced by GITHUB_EVENT_PATH.
func PRNumberFromEvent(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read event payload: %w", err)
	}
	return PRNumberFromPayload(data)
}

func PRNumberFromPayload(data []byte) (int, error) {
	if !gjson.ValidBytes(data) {
		return 0, fmt.Errorf("event payload is not valid JSON")
	}
	for _, path := range []string{"pull_request.number", "number"} {
		if v := gjson.GetBytes(data, path); v.Exists() && v.Int() > 0 {
			return int(v.Int()), nil
		}
	}
	return 0, fmt.Errorf("event payload has no pull request number")
}
