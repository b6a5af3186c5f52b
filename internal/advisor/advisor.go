package advisor

import (
	"context"
	"encoding/json"
	"math"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/internal/llm"
	"github.com/thep200/gitgrade/pkg/log"
)

type Advisor struct {
	Logger   log.Logger
	Provider llm.Provider
	Settings llm.Settings
}

func NewAdvisor(logger log.Logger, config *cfg.Config, provider llm.Provider) (*Advisor, error) {
	return &Advisor{
		Logger:   logger,
		Provider: provider,
		Settings: llm.Settings{
			Model:       config.Llm.Model,
			Temperature: config.Llm.Temperature,
			MaxTokens:   config.Llm.MaxTokens,
		},
	}, nil
}

// Advise never fails: provider errors and unusable replies yield Fallback().
func (a *Advisor) Advise(ctx context.Context, readme string, files []string, baseScore int) Advice {
	if a.Provider == nil {
		a.Logger.Warn(ctx, "No LLM provider configured, using fallback advice")
		return Fallback()
	}

	a.Logger.Info(ctx, "Asking %s for repository advice (%d files)", a.Provider.Name(), len(files))
	reply, err := a.Provider.Generate(ctx, buildPrompt(readme, files, baseScore), a.Settings)
	if err != nil {
		a.Logger.Error(ctx, "AI error: %v", err)
		return Fallback()
	}

	advice, err := parseAdvice(reply)
	if err != nil {
		a.Logger.Error(ctx, "AI returned unusable JSON: %v", err)
		return Fallback()
	}
	return advice
}

// wireAdvice accepts fractional bonuses, models do not always return integers
type wireAdvice struct {
	Advice
	QualityBonus float64 `json:"quality_bonus"`
}

func parseAdvice(reply string) (Advice, error) {
	var w wireAdvice
	if err := json.Unmarshal([]byte(llm.ExtractJSON(reply)), &w); err != nil {
		return Advice{}, err
	}
	advice := w.Advice
	advice.QualityBonus = int(math.Round(w.QualityBonus))
	advice.normalize()
	return advice, nil
}
