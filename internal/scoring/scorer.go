// Package scoring rates a repository's hygiene from its file listing, README and metadata.
//
// Every check is a substring test against the raw paths, so a file called
// "mynode_modules.txt" still trips the node_modules penalty.
package scoring

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinScore = 0
	MaxScore = 100

	// ParticipationScore is returned for listings too small to evaluate
	ParticipationScore = 10

	// PushedAtLayout is the only accepted pushed_at format
	PushedAtLayout = "2006-01-02T15:04:05Z"
)

var (
	junkTokens      = []string{".DS_Store", "Thumbs.db", "__pycache__", "node_modules", ".env", "venv"}
	structureTokens = []string{"src/", "app/", "lib/", "components/", "pages/", "public/", "server/", "client/"}
	setupPhrases    = []string{"npm install", "pip install", "setup", "getting started", "run the app", "docker run", "mvn install", "./mvnw"}
	lockTokens      = []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "poetry.lock", "Pipfile.lock", "go.sum", "Cargo.lock", "pom.xml", "build.gradle"}
	testTokens      = []string{"test", "tests", "__tests__", "spec", "pytest.ini"}
	ciTokens        = []string{".github", ".travis.yml", "circleci"}
)

// Metadata is the subset of repository metadata the scorer reads. Nil means absent.
type Metadata struct {
	Description *string `json:"description,omitempty"`
	License     *string `json:"license,omitempty"`
	PushedAt    *string `json:"pushed_at,omitempty"`
}

// Breakdown is the per-category contribution. Total is the clamped sum.
type Breakdown struct {
	Hygiene       int `json:"hygiene"`
	Documentation int `json:"documentation"`
	Engineering   int `json:"engineering"`
	Testing       int `json:"testing"`
	Activity      int `json:"activity"`
	Golden        int `json:"golden"`
	Total         int `json:"total"`
}

// Scorer evaluates repositories against the clock returned by Now.
// The zero value uses time.Now.
type Scorer struct {
	Now func() time.Time
}

// Score uses the wall clock.
func Score(meta Metadata, files []string, readme string) int {
	return Scorer{}.Score(meta, files, readme)
}

func (s Scorer) Score(meta Metadata, files []string, readme string) int {
	return s.Breakdown(meta, files, readme).Total
}

// Breakdown scores each category separately. Listings with fewer than two files
// short-circuit to the participation score with every category left at zero.
func (s Scorer) Breakdown(meta Metadata, files []string, readme string) Breakdown {
	if len(files) < 2 {
		return Breakdown{Total: ParticipationScore}
	}

	l := newListing(files)
	b := Breakdown{
		Hygiene:       hygiene(l),
		Documentation: documentation(readme),
		Engineering:   engineering(l),
		Testing:       testingQA(l),
		Activity:      activity(meta.PushedAt, s.now()),
		Golden:        golden(meta, l),
	}
	b.Total = Clamp(b.Hygiene + b.Documentation + b.Engineering + b.Testing + b.Activity + b.Golden)
	return b
}

func (s Scorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type listing struct {
	files  []string
	set    map[string]struct{}
	joined string
}

func newListing(files []string) listing {
	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		set[f] = struct{}{}
	}
	return listing{files: files, set: set, joined: strings.Join(files, " ")}
}

func (l listing) has(name string) bool {
	_, ok := l.set[name]
	return ok
}

func (l listing) containsAny(tokens []string) bool {
	return containsAny(l.joined, tokens)
}

// anyPathContains tests each path on its own, so a token never matches across the join separator.
func (l listing) anyPathContains(token string) bool {
	for _, f := range l.files {
		if strings.Contains(f, token) {
			return true
		}
	}
	return false
}

func hygiene(l listing) int {
	rootFiles := 0
	for _, f := range l.files {
		if !strings.Contains(f, "/") {
			rootFiles++
		}
	}

	points := 0
	if rootFiles < 15 {
		points += 5
	}

	penalty := 0
	for _, junk := range junkTokens {
		if l.anyPathContains(junk) {
			penalty += 5
		}
	}
	// penalties are summed first, then clamped once
	points = max(0, points-penalty)

	if l.containsAny(structureTokens) {
		points += 15
	} else if len(l.files) > 3 {
		points += 5
	}
	return points
}

func documentation(readme string) int {
	if readme == "" {
		return 0
	}

	points := 0
	switch n := utf8.RuneCountInString(readme); {
	case n > 1000:
		points += 5
	case n > 300:
		points += 2
	}

	lower := strings.ToLower(readme)
	if containsAny(lower, setupPhrases) {
		points += 10
	}
	if strings.Contains(readme, "![") || strings.Contains(lower, "<img") {
		points += 5
	}
	return points
}

func engineering(l listing) int {
	points := 0
	if l.has(".gitignore") || strings.Contains(l.joined, ".gitignore") {
		points += 10
	}
	if l.containsAny(lockTokens) {
		points += 10
	}
	return points
}

func testingQA(l listing) int {
	points := 0
	if l.containsAny(testTokens) {
		points += 15
	}
	if l.containsAny(ciTokens) {
		points += 5
	}
	return points
}

// activity gives benefit of the doubt (5) to timestamps that fail to parse.
func activity(pushedAt *string, now time.Time) int {
	if pushedAt == nil || *pushedAt == "" {
		return 0
	}
	pushed, err := time.Parse(PushedAtLayout, *pushedAt)
	if err != nil {
		return 5
	}

	days := math.Floor(now.UTC().Sub(pushed).Hours() / 24)
	switch {
	case days < 30:
		return 10
	case days < 90:
		return 5
	default:
		return 0
	}
}

func golden(meta Metadata, l listing) int {
	points := 0
	if meta.License != nil || strings.Contains(l.joined, "LICENSE") {
		points += 5
	}
	if meta.Description != nil && utf8.RuneCountInString(*meta.Description) > 10 {
		points += 5
	}
	return points
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Clamp bounds a score to [MinScore, MaxScore]
func Clamp(score int) int {
	return min(MaxScore, max(MinScore, score))
}
