package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kalamitra/heritage-verify/internal/config"
	"github.com/kalamitra/heritage-verify/internal/core/domain"
	"github.com/kalamitra/heritage-verify/internal/core/ports"
	"github.com/kalamitra/heritage-verify/internal/observability/metrics"
)

type Router struct {
	cfg     config.Config
	intake  ports.SubmissionIntake
	subs    ports.SubmissionRepository
	packs   ports.PackRepository
	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	intake ports.SubmissionIntake,
	subs ports.SubmissionRepository,
	packs ports.PackRepository,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:     cfg,
		intake:  intake,
		subs:    subs,
		packs:   packs,
		metrics: m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/submissions", rt.submissions)
	mux.HandleFunc("/v1/submissions/", rt.getSubmissionByID)
	mux.HandleFunc("/v1/packs", rt.listPacks)
	mux.HandleFunc("/v1/packs/", rt.getPackByID)

	var handler http.Handler = mux
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) submissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.createSubmission(w, r)
	case http.MethodGet:
		rt.listSubmissions(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) createSubmission(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.APIMaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.APIMaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	meta := domain.SubmissionMetadata{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Attribution: r.FormValue("attribution"),
	}
	payload := domain.PayloadDescriptor{
		FileName: fileHeader.Filename,
		FileSize: fileHeader.Size,
	}

	sub, err := rt.intake.Submit(r.Context(), payload, meta)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSubmissionAccepted("api", sub.Category)
	}
	writeJSON(w, http.StatusAccepted, sub)
}

func (rt *Router) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := rt.subs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	// stale_after narrows the list to processing submissions older than the
	// given duration, the staleness probe for fail-closed verification tasks.
	if raw := r.URL.Query().Get("stale_after"); raw != "" {
		staleAfter, err := time.ParseDuration(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid stale_after duration"})
			return
		}
		cutoff := time.Now().UTC().Add(-staleAfter)
		stale := make([]domain.Submission, 0)
		for _, sub := range subs {
			if sub.Status == domain.StatusProcessing && sub.UploadedAt.Before(cutoff) {
				stale = append(stale, sub)
			}
		}
		subs = stale
	}

	writeJSON(w, http.StatusOK, subs)
}

func (rt *Router) getSubmissionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/submissions/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "submission id is required"})
		return
	}

	sub, err := rt.subs.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (rt *Router) listPacks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	packs, err := rt.packs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, packs)
}

func (rt *Router) getPackByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/packs/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pack id is required"})
		return
	}

	pack, err := rt.packs.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pack)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
