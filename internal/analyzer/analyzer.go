// Package analyzer chạy toàn bộ pipeline phân tích một repository:
// parse URL, lấy dữ liệu GitHub, chấm điểm heuristic, hỏi LLM, rồi lưu và phát sự kiện.
package analyzer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/internal/advisor"
	githubapi "github.com/thep200/gitgrade/internal/github_api"
	"github.com/thep200/gitgrade/internal/model"
	"github.com/thep200/gitgrade/internal/scoring"
	"github.com/thep200/gitgrade/pkg/log"
)

const (
	MessageKey         = "analysis"
	fileStructureLimit = 50
	defaultDescription = "No description provided."
	defaultLanguage    = "Multi-language"
)

type Fetcher interface {
	FetchRepo(ctx context.Context, owner, repo string) (*githubapi.RepoData, error)
}

type Adviser interface {
	Advise(ctx context.Context, readme string, files []string, baseScore int) advisor.Advice
}

// Store is satisfied by *model.Analysis
type Store interface {
	Create(ctx context.Context, msg model.AnalysisMessage) (*model.Analysis, error)
}

// Publisher is satisfied by *kafka.Producer
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

type Details struct {
	Name        string `json:"name" yaml:"name"`
	Owner       string `json:"owner" yaml:"owner"`
	Description string `json:"description" yaml:"description"`
	Stars       int    `json:"stars" yaml:"stars"`
	Forks       int    `json:"forks" yaml:"forks"`
	OpenIssues  int    `json:"open_issues" yaml:"open_issues"`
	Language    string `json:"language" yaml:"language"`
}

type Result struct {
	ID            uint                  `json:"id,omitempty" yaml:"id,omitempty"`
	Details       Details               `json:"details" yaml:"details"`
	Score         int                   `json:"score" yaml:"score"`
	BaseScore     int                   `json:"base_score" yaml:"base_score"`
	Breakdown     scoring.Breakdown     `json:"breakdown" yaml:"breakdown"`
	Summary       string                `json:"summary" yaml:"summary"`
	Roadmap       []advisor.RoadmapItem `json:"roadmap" yaml:"roadmap"`
	TechStack     advisor.TechStack     `json:"tech_stack" yaml:"tech_stack"`
	FileStructure []string              `json:"file_structure" yaml:"file_structure"`
}

type Service struct {
	Logger    log.Logger
	Config    *cfg.Config
	Scorer    scoring.Scorer
	fetcher   Fetcher
	adviser   Adviser
	store     Store
	publisher Publisher
}

// NewService cần fetcher và adviser; store và publisher có thể nil
func NewService(logger log.Logger, config *cfg.Config, fetcher Fetcher, adviser Adviser, store Store, publisher Publisher) (*Service, error) {
	return &Service{
		Logger:    logger,
		Config:    config,
		fetcher:   fetcher,
		adviser:   adviser,
		store:     store,
		publisher: publisher,
	}, nil
}

// Analyze only fails on URL parsing and the GitHub metadata fetch. Persisting and
// publishing are best effort.
func (s *Service) Analyze(ctx context.Context, githubURL string) (*Result, error) {
	owner, repo, err := githubapi.ParseRepoURL(githubURL)
	if err != nil {
		return nil, err
	}

	data, err := s.fetcher.FetchRepo(ctx, owner, repo)
	if err != nil {
		s.Logger.Error(ctx, "Fetch failed for %s/%s: %v", owner, repo, err)
		return nil, err
	}

	breakdown := s.Scorer.Breakdown(data.Metadata.ScoringMetadata(), data.Files, data.Readme)
	s.Logger.Info(ctx, "Base score for %s/%s: %d", owner, repo, breakdown.Total)

	advice := s.adviser.Advise(ctx, data.Readme, data.Files, breakdown.Total)

	result := &Result{
		Details:       toDetails(data.Metadata, owner, repo),
		Score:         scoring.Clamp(breakdown.Total + advice.QualityBonus),
		BaseScore:     breakdown.Total,
		Breakdown:     breakdown,
		Summary:       advice.Summary,
		Roadmap:       advice.Roadmap,
		TechStack:     advice.TechStack,
		FileStructure: firstN(data.Files, fileStructureLimit),
	}

	s.record(ctx, githubURL, result)
	return result, nil
}

func (s *Service) record(ctx context.Context, githubURL string, result *Result) {
	if s.store == nil && s.publisher == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.Logger.Error(ctx, "Cannot encode analysis result: %v", err)
		return
	}
	msg := model.AnalysisMessage{
		GithubURL:    githubURL,
		Owner:        result.Details.Owner,
		RepoName:     result.Details.Name,
		OverallScore: result.Score,
		BaseScore:    result.BaseScore,
		Summary:      result.Summary,
		Result:       payload,
		AnalyzedAt:   time.Now().UTC(),
	}

	if s.store != nil {
		if saved, err := s.store.Create(ctx, msg); err != nil {
			s.Logger.Error(ctx, "Failed to persist analysis for %s: %v", githubURL, err)
		} else {
			result.ID = saved.ID
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, MessageKey, msg); err != nil {
			s.Logger.Error(ctx, "Failed to publish analysis for %s: %v", githubURL, err)
		}
	}
}

func toDetails(m githubapi.RepoMetadata, owner, repo string) Details {
	d := Details{
		Name:        m.Name,
		Owner:       m.Owner,
		Description: defaultDescription,
		Stars:       m.Stars,
		Forks:       m.Forks,
		OpenIssues:  m.OpenIssues,
		Language:    m.Language,
	}
	if d.Name == "" {
		d.Name = repo
	}
	if d.Owner == "" {
		d.Owner = owner
	}
	if m.Description != nil && *m.Description != "" {
		d.Description = *m.Description
	}
	if d.Language == "" {
		d.Language = defaultLanguage
	}
	return d
}

func firstN(files []string, n int) []string {
	if len(files) > n {
		files = files[:n]
	}
	out := make([]string, len(files))
	copy(out, files)
	return out
}
