package model

import (
	"encoding/json"
	"time"
)

// AnalysisMessage là cấu trúc dữ liệu một lần phân tích gửi tới Kafka
type AnalysisMessage struct {
	GithubURL    string          `json:"github_url"`
	Owner        string          `json:"owner"`
	RepoName     string          `json:"repo_name"`
	OverallScore int             `json:"overall_score"`
	BaseScore    int             `json:"base_score"`
	Summary      string          `json:"summary"`
	Result       json.RawMessage `json:"result"`
	AnalyzedAt   time.Time       `json:"analyzed_at"`
}
