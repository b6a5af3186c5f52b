package advisor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxPromptFiles   = 80
	maxReadmeExcerpt = 1000
	maxPriorityDepth = 2
)

var priorityFiles = []string{
	"package.json", "pom.xml", "build.gradle", "requirements.txt",
	"Dockerfile", "docker-compose.yml", "vite.config", "next.config",
	"tsconfig.json", "go.mod", "Cargo.toml", "App.tsx", "main.py",
	"tailwind.config.js", ".github/workflows",
}

// importantFiles keeps manifests and anything at most two directories deep, in listing order
func importantFiles(files []string) []string {
	out := make([]string, 0, min(len(files), maxPromptFiles))
	for _, f := range files {
		if len(out) == maxPromptFiles {
			break
		}
		if strings.Count(f, "/") <= maxPriorityDepth || containsAny(f, priorityFiles) {
			out = append(out, f)
		}
	}
	return out
}

func buildPrompt(readme string, files []string, baseScore int) string {
	joined := strings.Join(files, " ")
	projectType := "Standard Repository"
	if strings.Contains(joined, "backend/") && strings.Contains(joined, "frontend/") {
		projectType = "Full-Stack Monorepo"
	}
	hasGitignore := "NO"
	if strings.Contains(joined, ".gitignore") {
		hasGitignore = "YES"
	}

	excerpt := "No README detected."
	if readme != "" {
		excerpt = truncateRunes(readme, maxReadmeExcerpt)
	}

	var b strings.Builder
	b.WriteString("You are a harsh but helpful Senior Software Architect.\n")
	b.WriteString("Analyze this GitHub repository structure and return a raw JSON response.\n\n")
	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "- Project Type: %s\n", projectType)
	fmt.Fprintf(&b, "- Base Logic Score: %d/100\n", baseScore)
	fmt.Fprintf(&b, "- Has .gitignore: %s (Do NOT suggest adding it)\n\n", hasGitignore)
	b.WriteString("FILES DETECTED (Truncated):\n")
	b.WriteString(strings.Join(importantFiles(files), "\n"))
	b.WriteString("\n\nREADME EXCERPT:\n")
	b.WriteString(excerpt)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("1. Deep Tech Stack Detection: name specific frameworks (e.g. React, Spring Boot, Tailwind, Vite), not just languages.\n")
	b.WriteString("2. Detailed Roadmap: provide 5 to 7 distinct, high-impact improvements.\n")
	b.WriteString("3. Structure: each roadmap item MUST have a short 'title', a detailed 'description' explaining HOW to do it, and a 'category'.\n")
	fmt.Fprintf(&b, "4. Summary: a concise executive summary. Do NOT mention the numeric logic score (%d) in the summary.\n\n", baseScore)
	b.WriteString("OUTPUT FORMAT (JSON ONLY - NO MARKDOWN):\n")
	b.WriteString(`{
  "tech_stack": {"frontend": [], "backend": [], "infrastructure": []},
  "summary": "A 3-4 sentence executive summary of the architecture and code quality.",
  "roadmap": [{"title": "Enhance CI/CD Pipeline", "description": "Create a .github/workflows/ci.yml ...", "category": "DevOps"}],
  "quality_bonus": 0
}`)
	b.WriteString("\n")
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
