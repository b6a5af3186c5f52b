package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/thep200/gitgrade/internal/analyzer"
	"github.com/thep200/gitgrade/internal/scoring"
	"gopkg.in/yaml.v3"
)

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown format %q, want text, json or yaml", format)
}

func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown format %q", format)
}

type palette struct {
	title, good, warn, bad, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		title: color.New(color.FgCyan, color.Bold),
		good:  color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		bad:   color.New(color.FgRed, color.Bold),
		dim:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.title, p.good, p.warn, p.bad, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// grade tô màu điểm theo ngưỡng 75 / 50
func (p palette) grade(score, outOf int) string {
	text := fmt.Sprintf("%d/%d", score, outOf)
	switch pct := score * 100 / outOf; {
	case pct >= 75:
		return p.good.Sprint(text)
	case pct >= 50:
		return p.warn.Sprint(text)
	default:
		return p.bad.Sprint(text)
	}
}

func writeBreakdownText(w io.Writer, p palette, b scoring.Breakdown) {
	rows := []struct {
		name  string
		score int
		outOf int
	}{
		{"Hygiene", b.Hygiene, 20},
		{"Documentation", b.Documentation, 20},
		{"Engineering", b.Engineering, 20},
		{"Testing & QA", b.Testing, 20},
		{"Activity", b.Activity, 10},
		{"Golden", b.Golden, 10},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-14s %s\n", r.name, p.grade(r.score, r.outOf))
	}
}

func writeBreakdown(w io.Writer, format string, colored bool, dir string, b scoring.Breakdown) error {
	if format != "text" {
		return encode(w, format, map[string]interface{}{"path": dir, "score": b.Total, "breakdown": b})
	}
	p := newPalette(colored)
	fmt.Fprintf(w, "%s %s\n", p.title.Sprint("Score for"), dir)
	fmt.Fprintf(w, "  %-14s %s\n", "Total", p.grade(b.Total, scoring.MaxScore))
	writeBreakdownText(w, p, b)
	return nil
}

func writeResult(w io.Writer, format string, colored bool, r *analyzer.Result) error {
	if format != "text" {
		return encode(w, format, r)
	}

	p := newPalette(colored)
	d := r.Details
	fmt.Fprintf(w, "%s %s/%s\n", p.title.Sprint("Repository"), d.Owner, d.Name)
	fmt.Fprintf(w, "  %s\n", d.Description)
	fmt.Fprintf(w, "  %s  ★ %d  forks %d  issues %d\n\n", d.Language, d.Stars, d.Forks, d.OpenIssues)

	fmt.Fprintf(w, "%s %s %s\n", p.title.Sprint("Score"), p.grade(r.Score, scoring.MaxScore),
		p.dim.Sprintf("(base %d, AI bonus %+d)", r.BaseScore, r.Score-r.BaseScore))
	writeBreakdownText(w, p, r.Breakdown)

	fmt.Fprintf(w, "\n%s\n  %s\n", p.title.Sprint("Summary"), r.Summary)

	stack := []struct {
		name  string
		items []string
	}{
		{"Frontend", r.TechStack.Frontend},
		{"Backend", r.TechStack.Backend},
		{"Infrastructure", r.TechStack.Infrastructure},
	}
	fmt.Fprintf(w, "\n%s\n", p.title.Sprint("Tech stack"))
	for _, s := range stack {
		if len(s.items) > 0 {
			fmt.Fprintf(w, "  %-14s %s\n", s.name, strings.Join(s.items, ", "))
		}
	}

	if len(r.Roadmap) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.title.Sprint("Roadmap"))
		for i, item := range r.Roadmap {
			fmt.Fprintf(w, "  %d. %s %s\n     %s\n", i+1, item.Title, p.dim.Sprintf("[%s]", item.Category), item.Description)
		}
	}
	return nil
}
