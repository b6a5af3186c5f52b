package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thep200/gitgrade/internal/model"
)

type analyzeRequest struct {
	GithubURL string `json:"github_url"`
}

// AnalysisSummary is one row of the history listing
type AnalysisSummary struct {
	ID           uint   `json:"id"`
	GithubURL    string `json:"github_url"`
	Owner        string `json:"owner"`
	RepoName     string `json:"repo_name"`
	OverallScore int    `json:"overall_score"`
	BaseScore    int    `json:"base_score"`
	Summary      string `json:"summary"`
	CreatedAt    string `json:"created_at"`
}

type AnalysisDetail struct {
	AnalysisSummary
	Result json.RawMessage `json:"result"`
}

func toSummary(a model.Analysis) AnalysisSummary {
	return AnalysisSummary{
		ID:           a.ID,
		GithubURL:    a.GithubURL,
		Owner:        a.Owner,
		RepoName:     a.RepoName,
		OverallScore: a.OverallScore,
		BaseScore:    a.BaseScore,
		Summary:      a.Summary,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.GithubURL) == "" {
		h.writeError(w, r, http.StatusBadRequest, "github_url is required")
		return
	}

	result, err := h.deps.Analyzer.Analyze(r.Context(), req.GithubURL)
	if err != nil {
		h.Logger.Error(r.Context(), "ERROR in analyze: %v", err)
		h.writeError(w, r, statusFor(err), "Analysis failed: "+err.Error())
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

func (h *Handler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	if h.deps.Analyses == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "Analysis history is disabled")
		return
	}

	// Parse query parameters
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > model.MaxPageSize {
		pageSize = model.DefaultPageSize
	}
	search := r.URL.Query().Get("search")

	records, totalCount, err := h.deps.Analyses.List(r.Context(), page, pageSize, search)
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to fetch analyses: %v", err)
		h.writeError(w, r, http.StatusInternalServerError, "Failed to fetch analyses")
		return
	}

	analyses := make([]AnalysisSummary, 0, len(records))
	for _, a := range records {
		analyses = append(analyses, toSummary(a))
	}

	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"analyses": analyses,
		"pagination": map[string]interface{}{
			"page":       page,
			"pageSize":   pageSize,
			"totalCount": totalCount,
			"totalPages": (totalCount + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

func (h *Handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.deps.Analyses == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "Analysis history is disabled")
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		h.writeError(w, r, http.StatusBadRequest, "Invalid analysis id")
		return
	}

	record, err := h.deps.Analyses.FindByID(r.Context(), uint(id))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadGateway {
			status = http.StatusInternalServerError
			h.Logger.Error(r.Context(), "Failed to fetch analysis %d: %v", id, err)
		}
		h.writeError(w, r, status, "Analysis not available")
		return
	}

	detail := AnalysisDetail{AnalysisSummary: toSummary(*record)}
	if record.FullJSONResult != "" && json.Valid([]byte(record.FullJSONResult)) {
		detail.Result = json.RawMessage(record.FullJSONResult)
	}
	h.writeJSON(w, r, http.StatusOK, detail)
}
