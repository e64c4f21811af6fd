package source

import (
	"errors"
	"fmt"
	"strings"

	vcsurl "github.com/gitsight/go-vcsurl"
)

var ErrInvalidRepository = errors.New("invalid repository identifier")

// ParseRepository accepts "owner/repo" or a repository URL and returns its
// owner and name.
func ParseRepository(value string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: empty", ErrInvalidRepository)
	}

	if strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "git@") {
		info, perr := vcsurl.Parse(trimmed)
		if perr != nil {
			return "", "", fmt.Errorf("%w: %q: %v", ErrInvalidRepository, value, perr)
		}
		if info.Username == "" || info.Name == "" {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidRepository, value)
		}
		return info.Username, strings.TrimSuffix(info.Name, ".git"), nil
	}

	parts := strings.Split(strings.TrimSuffix(trimmed, ".git"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q (want owner/repo)", ErrInvalidRepository, value)
	}
	return parts[0], parts[1], nil
}
