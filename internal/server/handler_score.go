package server

import (
	"net/http"

	"github.com/thep200/gitgrade/internal/scoring"
)

// scoreRequest chấm điểm offline, không gọi GitHub hay LLM
type scoreRequest struct {
	Metadata scoring.Metadata `json:"metadata"`
	Files    []string         `json:"files"`
	Readme   string           `json:"readme"`
}

type scoreResponse struct {
	Score     int               `json:"score"`
	Breakdown scoring.Breakdown `json:"breakdown"`
}

func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !h.decode(w, r, &req) {
		return
	}
	b := h.deps.Scorer.Breakdown(req.Metadata, req.Files, req.Readme)
	h.writeJSON(w, r, http.StatusOK, scoreResponse{Score: b.Total, Breakdown: b})
}
