// Package advisor asks an LLM for a narrative review of a repository: an executive
// summary, the detected tech stack and an improvement roadmap.
package advisor

type TechStack struct {
	Frontend       []string `json:"frontend" yaml:"frontend"`
	Backend        []string `json:"backend" yaml:"backend"`
	Infrastructure []string `json:"infrastructure" yaml:"infrastructure"`
}

type RoadmapItem struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
}

// Advice is the decoded model reply. QualityBonus is added to the heuristic score.
type Advice struct {
	TechStack    TechStack     `json:"tech_stack" yaml:"tech_stack"`
	Summary      string        `json:"summary" yaml:"summary"`
	Roadmap      []RoadmapItem `json:"roadmap" yaml:"roadmap"`
	QualityBonus int           `json:"quality_bonus" yaml:"quality_bonus"`
	Fallback     bool          `json:"-" yaml:"-"`
}

// Fallback is returned whenever the provider or the reply cannot be used
func Fallback() Advice {
	return Advice{
		TechStack: TechStack{Frontend: []string{}, Backend: []string{}, Infrastructure: []string{}},
		Summary:   "AI Analysis unavailable. Showing fallback data.",
		Roadmap: []RoadmapItem{{
			Title:       "Error Connecting to AI",
			Description: "Please check your API key and internet connection.",
			Category:    "System",
		}},
		Fallback: true,
	}
}

func (a *Advice) normalize() {
	if a.TechStack.Frontend == nil {
		a.TechStack.Frontend = []string{}
	}
	if a.TechStack.Backend == nil {
		a.TechStack.Backend = []string{}
	}
	if a.TechStack.Infrastructure == nil {
		a.TechStack.Infrastructure = []string{}
	}
	if a.Summary == "" {
		a.Summary = "Analysis complete."
	}
	if a.Roadmap == nil {
		a.Roadmap = []RoadmapItem{}
	}
	for i := range a.Roadmap {
		if a.Roadmap[i].Category == "" {
			a.Roadmap[i].Category = "General"
		}
	}
}
