package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/internal/llm"
	"github.com/thep200/gitgrade/pkg/log"
)

func newTestAdvisor(t *testing.T, p llm.Provider) *Advisor {
	t.Helper()
	logger, _ := log.NewCslLogger()
	a, err := NewAdvisor(logger, cfg.Default(), p)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestAdviseParsesFencedReply(t *testing.T) {
	mock := &llm.MockProvider{Response: "```json\n" + `{
		"tech_stack": {"frontend": ["React", "Vite"], "backend": ["FastAPI"]},
		"summary": "Solid layout.",
		"roadmap": [{"title": "Add CI", "description": "Create a workflow."}, {"title": "Docker", "description": "Compose file.", "category": "Architecture"}],
		"quality_bonus": 2.6
	}` + "\n```"}
	a := newTestAdvisor(t, mock)

	got := a.Advise(context.Background(), "readme", []string{"src/App.tsx"}, 70)
	if got.Fallback {
		t.Fatal("unexpected fallback")
	}
	if got.Summary != "Solid layout." || got.QualityBonus != 3 {
		t.Errorf("unexpected advice: %+v", got)
	}
	if len(got.TechStack.Frontend) != 2 || got.TechStack.Infrastructure == nil {
		t.Errorf("unexpected tech stack: %+v", got.TechStack)
	}
	if got.Roadmap[0].Category != "General" || got.Roadmap[1].Category != "Architecture" {
		t.Errorf("unexpected categories: %+v", got.Roadmap)
	}
}

func TestAdviseFallsBack(t *testing.T) {
	tests := []struct {
		name string
		p    llm.Provider
	}{
		{"provider error", &llm.MockProvider{Err: errors.New("boom")}},
		{"bad json", &llm.MockProvider{Response: "I think this repo is great"}},
		{"no provider", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestAdvisor(t, tt.p).Advise(context.Background(), "", nil, 10)
			if !got.Fallback {
				t.Fatalf("expected fallback, got %+v", got)
			}
			if got.QualityBonus != 0 || len(got.Roadmap) != 1 || got.Roadmap[0].Category != "System" {
				t.Errorf("unexpected fallback content: %+v", got)
			}
		})
	}
}

func TestPromptContext(t *testing.T) {
	mock := &llm.MockProvider{Response: `{}`}
	a := newTestAdvisor(t, mock)
	files := []string{"backend/main.py", "frontend/src/App.tsx", ".gitignore"}
	got := a.Advise(context.Background(), strings.Repeat("r", 1500), files, 64)

	p := mock.LastPrompt
	for _, want := range []string{"Full-Stack Monorepo", "Base Logic Score: 64/100", "Has .gitignore: YES", "frontend/src/App.tsx"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(p, strings.Repeat("r", 1001)) {
		t.Error("readme excerpt should be capped at 1000 characters")
	}
	if got.Summary != "Analysis complete." {
		t.Errorf("empty reply should get default summary, got %q", got.Summary)
	}
}

func TestPromptWithoutReadme(t *testing.T) {
	p := buildPrompt("", []string{"main.go"}, 10)
	if !strings.Contains(p, "No README detected.") || !strings.Contains(p, "Standard Repository") {
		t.Errorf("unexpected prompt:\n%s", p)
	}
	if !strings.Contains(p, "Has .gitignore: NO") {
		t.Error("expected gitignore flag NO")
	}
}

func TestImportantFiles(t *testing.T) {
	var files []string
	for i := 0; i < 100; i++ {
		files = append(files, fmt.Sprintf("src/f%d.go", i))
	}
	if got := importantFiles(files); len(got) != maxPromptFiles {
		t.Errorf("expected cap at %d, got %d", maxPromptFiles, len(got))
	}

	got := importantFiles([]string{"a/b/c/d.go", "a/b/c/package.json", "a/b.go"})
	if len(got) != 2 || got[0] != "a/b/c/package.json" || got[1] != "a/b.go" {
		t.Errorf("unexpected selection: %v", got)
	}
}
