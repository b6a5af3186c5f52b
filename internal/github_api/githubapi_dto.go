// Các đối tượng truyền dữ liệu lấy từ GitHub REST API cho một repository

package githubapi

import "github.com/thep200/gitgrade/internal/scoring"

// RepoMetadata is the part of GET /repos/{owner}/{repo} the analysis needs
type RepoMetadata struct {
	Name          string  `json:"name"`
	Owner         string  `json:"owner"`
	Description   *string `json:"description,omitempty"`
	License       *string `json:"license,omitempty"`
	PushedAt      *string `json:"pushed_at,omitempty"`
	Stars         int     `json:"stargazers_count"`
	Forks         int     `json:"forks_count"`
	OpenIssues    int     `json:"open_issues_count"`
	Language      string  `json:"language,omitempty"`
	DefaultBranch string  `json:"default_branch"`
}

// RepoData gom metadata, danh sách file (blob) và README đã giải mã
type RepoData struct {
	Metadata RepoMetadata `json:"metadata"`
	Files    []string     `json:"files"`
	Readme   string       `json:"readme"`
}

func (m RepoMetadata) ScoringMetadata() scoring.Metadata {
	return scoring.Metadata{
		Description: m.Description,
		License:     m.License,
		PushedAt:    m.PushedAt,
	}
}
