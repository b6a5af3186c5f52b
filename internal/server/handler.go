package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/internal/analyzer"
	githubapi "github.com/thep200/gitgrade/internal/github_api"
	"github.com/thep200/gitgrade/internal/model"
	"github.com/thep200/gitgrade/internal/payment"
	"github.com/thep200/gitgrade/internal/scoring"
	"github.com/thep200/gitgrade/pkg/log"
)

const maxBodyBytes = 1 << 20

type Analyzer interface {
	Analyze(ctx context.Context, githubURL string) (*analyzer.Result, error)
}

// AnalysisReader is satisfied by *model.Analysis
type AnalysisReader interface {
	FindByID(ctx context.Context, id uint) (*model.Analysis, error)
	List(ctx context.Context, page, pageSize int, search string) ([]model.Analysis, int64, error)
}

type Pinger interface {
	Ping() error
}

type PaymentLinker interface {
	Generate(req payment.Request) (*payment.Link, error)
}

// Deps gom các thành phần Handler dùng. Analyses, Payments và DB có thể nil,
// route tương ứng trả về 503.
type Deps struct {
	Analyzer Analyzer
	Analyses AnalysisReader
	Payments PaymentLinker
	DB       Pinger
	Scorer   scoring.Scorer
}

// Handler manages HTTP requests for the API
type Handler struct {
	Logger log.Logger
	Config *cfg.Config
	deps   Deps
}

// NewHandler creates a new API handler
func NewHandler(logger log.Logger, config *cfg.Config, deps Deps) (*Handler, error) {
	if deps.Analyzer == nil {
		return nil, errors.New("handler needs an analyzer")
	}
	return &Handler{
		Logger: logger,
		Config: config,
		deps:   deps,
	}, nil
}

// RegisterRoutes sets up the HTTP routes for the API
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /healthz", h.health)

	mux.HandleFunc("POST /api/analyze", h.analyze)
	mux.HandleFunc("POST /api/analyze/{$}", h.analyze)
	mux.HandleFunc("GET /api/analyses", h.listAnalyses)
	mux.HandleFunc("GET /api/analyses/{id}", h.getAnalysis)
	mux.HandleFunc("POST /api/score", h.score)
	mux.HandleFunc("POST /api/payment/generate-link", h.generatePaymentLink)
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"message": h.Config.App.Name + " " + h.Config.App.Version + " backend is running",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "disabled"}
	if h.deps.DB != nil {
		if err := h.deps.DB.Ping(); err != nil {
			h.Logger.Error(r.Context(), "Health check database ping failed: %v", err)
			status["status"] = "degraded"
			status["database"] = "unreachable"
			h.writeJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}
	h.writeJSON(w, r, http.StatusOK, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error(r.Context(), "Failed to encode JSON response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	h.writeJSON(w, r, status, map[string]string{"detail": detail})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps pipeline errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, githubapi.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, githubapi.ErrRepoNotFound), errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, githubapi.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, githubapi.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
