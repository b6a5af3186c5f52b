package githubapi

import (
	"fmt"
	"strings"
)

// ParseRepoURL lấy owner và tên repo từ hai đoạn cuối của URL.
// Accepts "https://github.com/o/r", "github.com/o/r.git", "o/r/" and similar.
func ParseRepoURL(raw string) (string, string, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	s = strings.TrimSuffix(s, ".git")

	parts := strings.Split(s, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	owner, repo := parts[len(parts)-2], parts[len(parts)-1]
	// GitHub logins never contain '.' or ':', hosts and schemes do
	if owner == "" || repo == "" || strings.ContainsAny(owner, ".:") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return owner, repo, nil
}
