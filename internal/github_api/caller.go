// Gói githubapi cung cấp một caller cho GitHub API, để lấy metadata, cây file và README
// của một repository. Nó xử lý xác thực bằng access token nếu được cung cấp
// và giới hạn số request mỗi giây theo cấu hình.

package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/internal/limiter"
	"github.com/thep200/gitgrade/internal/scoring"
	"github.com/thep200/gitgrade/pkg/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidURL   = errors.New("invalid GitHub URL")
	ErrRepoNotFound = errors.New("repository not found")
	ErrUnauthorized = errors.New("GitHub API token is invalid or expired")
	ErrRateLimited  = errors.New("GitHub API rate limit reached")
)

type Caller struct {
	Logger  log.Logger
	Config  *cfg.Config
	client  *github.Client
	limiter *limiter.RateLimiter
}

func NewCaller(logger log.Logger, config *cfg.Config) (*Caller, error) {
	timeout := time.Duration(config.GithubApi.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := github.NewClient(&http.Client{Timeout: timeout})
	if config.GithubApi.AccessToken != "" {
		client = client.WithAuthToken(config.GithubApi.AccessToken)
	}

	if apiUrl := config.GithubApi.ApiUrl; apiUrl != "" {
		if !strings.HasSuffix(apiUrl, "/") {
			apiUrl += "/"
		}
		baseURL, err := url.Parse(apiUrl)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API url %q: %w", config.GithubApi.ApiUrl, err)
		}
		client.BaseURL = baseURL
	}

	return &Caller{
		Logger:  logger,
		Config:  config,
		client:  client,
		limiter: limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond),
	}, nil
}

// FetchRepo lấy metadata trước, sau đó lấy cây file và README song song.
// Tree and README failures degrade to empty values; only the metadata call can fail the fetch.
func (c *Caller) FetchRepo(ctx context.Context, owner, repo string) (*RepoData, error) {
	c.Logger.Info(ctx, "Fetching GitHub data for %s/%s", owner, repo)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ghRepo, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	c.logRateLimit(ctx, resp)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	data := &RepoData{Metadata: toMetadata(ghRepo, owner, repo)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		files, err := c.fetchFiles(gctx, owner, repo, data.Metadata.DefaultBranch)
		data.Files = files
		return err
	})
	g.Go(func() error {
		readme, err := c.fetchReadme(gctx, owner, repo)
		data.Readme = readme
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.Logger.Info(ctx, "Fetched %s/%s: %d files, readme %d bytes", owner, repo, len(data.Files), len(data.Readme))
	return data, nil
}

// fetchFiles chỉ lấy path của các blob, bỏ qua thư mục (tree)
func (c *Caller) fetchFiles(ctx context.Context, owner, repo, branch string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	tree, _, err := c.client.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.Logger.Warn(ctx, "Recursive tree fetch failed for %s/%s@%s: %v", owner, repo, branch, err)
		return []string{}, nil
	}
	if tree.GetTruncated() {
		c.Logger.Warn(ctx, "Tree for %s/%s is truncated by GitHub, scoring a partial listing", owner, repo)
	}

	files := make([]string, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" {
			files = append(files, entry.GetPath())
		}
	}
	return files, nil
}

func (c *Caller) fetchReadme(ctx context.Context, owner, repo string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	content, _, err := c.client.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var er *github.ErrorResponse
		if !errors.As(err, &er) || er.Response == nil || er.Response.StatusCode != http.StatusNotFound {
			c.Logger.Warn(ctx, "README fetch failed for %s/%s: %v", owner, repo, err)
		}
		return "", nil
	}

	text, err := content.GetContent()
	if err != nil {
		c.Logger.Warn(ctx, "Cannot decode README for %s/%s: %v", owner, repo, err)
		return "", nil
	}
	return strings.ToValidUTF8(text, ""), nil
}

// classify maps go-github errors onto the package sentinels
func (c *Caller) classify(ctx context.Context, err error) error {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		resetTime := rle.Rate.Reset.Time
		c.Logger.Warn(ctx, "Rate limit hit! Cần chờ %v đến %v để tiếp tục",
			time.Until(resetTime).Round(time.Second), resetTime.Format(time.RFC3339))
		return fmt.Errorf("%w, reset at %s", ErrRateLimited, resetTime.Format(time.RFC3339))
	}

	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		c.Logger.Warn(ctx, "Secondary rate limit hit, retry after %v", arle.GetRetryAfter())
		return fmt.Errorf("%w (secondary limit)", ErrRateLimited)
	}

	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch er.Response.StatusCode {
		case http.StatusNotFound:
			return ErrRepoNotFound
		case http.StatusUnauthorized:
			return ErrUnauthorized
		}
	}

	return fmt.Errorf("github request failed: %w", err)
}

func (c *Caller) logRateLimit(ctx context.Context, resp *github.Response) {
	if resp == nil {
		return
	}
	c.Logger.Debug(ctx, "Rate limit remaining: %d/%d", resp.Rate.Remaining, resp.Rate.Limit)
}

func toMetadata(r *github.Repository, owner, repo string) RepoMetadata {
	meta := RepoMetadata{
		Name:          r.GetName(),
		Owner:         r.GetOwner().GetLogin(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		Language:      r.GetLanguage(),
		DefaultBranch: r.GetDefaultBranch(),
	}
	if meta.Name == "" {
		meta.Name = repo
	}
	if meta.Owner == "" {
		meta.Owner = owner
	}
	if meta.DefaultBranch == "" {
		meta.DefaultBranch = "main"
	}
	if r.Description != nil {
		meta.Description = github.Ptr(r.GetDescription())
	}
	if r.License != nil {
		license := r.License.GetSPDXID()
		if license == "" {
			license = r.License.GetName()
		}
		meta.License = &license
	}
	if r.PushedAt != nil {
		meta.PushedAt = github.Ptr(r.PushedAt.UTC().Format(scoring.PushedAtLayout))
	}
	return meta
}
