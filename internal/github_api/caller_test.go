package githubapi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/pkg/log"
)

func newTestCaller(t *testing.T, mux *http.ServeMux) *Caller {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()
	config.GithubApi.ApiUrl = srv.URL
	config.GithubApi.AccessToken = "test-token"
	config.GithubApi.RequestsPerSecond = 0

	logger, _ := log.NewCslLogger()
	c, err := NewCaller(logger, config)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestFetchRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing auth header, got %q", r.Header.Get("Authorization"))
		}
		writeJSON(w, http.StatusOK, `{
			"name": "hello", "owner": {"login": "octo"}, "description": "A friendly greeting",
			"license": {"spdx_id": "MIT", "name": "MIT License"},
			"pushed_at": "2025-06-10T08:00:00Z", "stargazers_count": 42, "forks_count": 3,
			"open_issues_count": 1, "language": "Go", "default_branch": "trunk"}`)
	})
	mux.HandleFunc("/repos/octo/hello/git/trees/trunk", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("recursive") == "" {
			t.Error("expected recursive tree request")
		}
		writeJSON(w, http.StatusOK, `{"sha": "abc", "truncated": false, "tree": [
			{"path": "src", "type": "tree"},
			{"path": "src/main.go", "type": "blob"},
			{"path": "README.md", "type": "blob"}]}`)
	})
	mux.HandleFunc("/repos/octo/hello/readme", func(w http.ResponseWriter, r *http.Request) {
		content := base64.StdEncoding.EncodeToString([]byte("# Hello\nnpm install"))
		writeJSON(w, http.StatusOK, `{"type": "file", "encoding": "base64", "content": "`+content+`"}`)
	})

	c := newTestCaller(t, mux)
	data, err := c.FetchRepo(context.Background(), "octo", "hello")
	if err != nil {
		t.Fatal(err)
	}

	if len(data.Files) != 2 || data.Files[0] != "src/main.go" || data.Files[1] != "README.md" {
		t.Errorf("unexpected files: %v", data.Files)
	}
	if data.Readme != "# Hello\nnpm install" {
		t.Errorf("unexpected readme: %q", data.Readme)
	}
	m := data.Metadata
	if m.Name != "hello" || m.Owner != "octo" || m.Stars != 42 || m.Language != "Go" {
		t.Errorf("unexpected metadata: %+v", m)
	}
	if m.License == nil || *m.License != "MIT" {
		t.Errorf("expected MIT license, got %v", m.License)
	}
	if m.PushedAt == nil || *m.PushedAt != "2025-06-10T08:00:00Z" {
		t.Errorf("unexpected pushed_at: %v", m.PushedAt)
	}
	sm := m.ScoringMetadata()
	if sm.Description == nil || *sm.Description != "A friendly greeting" {
		t.Errorf("scoring metadata lost description: %+v", sm)
	}
}

func TestFetchRepoDegradesWithoutTreeOrReadme(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/empty", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"name": "empty", "owner": {"login": "octo"}, "default_branch": "main"}`)
	})
	mux.HandleFunc("/repos/octo/empty/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, `{"message": "Git Repository is empty."}`)
	})
	mux.HandleFunc("/repos/octo/empty/readme", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message": "Not Found"}`)
	})

	c := newTestCaller(t, mux)
	data, err := c.FetchRepo(context.Background(), "octo", "empty")
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Files) != 0 || data.Readme != "" {
		t.Errorf("expected empty listing and readme, got %v %q", data.Files, data.Readme)
	}
	if data.Metadata.License != nil || data.Metadata.PushedAt != nil || data.Metadata.Description != nil {
		t.Errorf("absent fields should stay nil: %+v", data.Metadata)
	}
}

func TestFetchRepoErrors(t *testing.T) {
	reset := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, `{"message": "Not Found"}`)
			},
			want: ErrRepoNotFound,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, `{"message": "Bad credentials"}`)
			},
			want: ErrUnauthorized,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", reset)
				writeJSON(w, http.StatusForbidden, `{"message": "API rate limit exceeded for 127.0.0.1."}`)
			},
			want: ErrRateLimited,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/octo/hello", tt.handler)
			c := newTestCaller(t, mux)
			_, err := c.FetchRepo(context.Background(), "octo", "hello")
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		in          string
		owner, repo string
		wantErr     bool
	}{
		{"https://github.com/octo/hello", "octo", "hello", false},
		{"https://github.com/octo/hello/", "octo", "hello", false},
		{"https://github.com/octo/hello.git", "octo", "hello", false},
		{"github.com/octo/hello?tab=readme", "octo", "hello", false},
		{"octo/hello.js", "octo", "hello.js", false},
		{"  https://github.com/octo/hello  ", "octo", "hello", false},
		{"hello", "", "", true},
		{"https://github.com/octo", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		owner, repo, err := ParseRepoURL(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("ParseRepoURL(%q): expected ErrInvalidURL, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepoURL(%q): unexpected error %v", tt.in, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRepoURL(%q) = %q, %q; want %q, %q", tt.in, owner, repo, tt.owner, tt.repo)
		}
	}
}
