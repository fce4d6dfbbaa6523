// Package handler exposes the analysis pipeline over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"certifi/internal/audit"
	"certifi/internal/classify"
	"certifi/internal/pipeline"
	"certifi/internal/platform/metrics"
	"certifi/internal/records"
	dErrors "certifi/pkg/domain-errors"
	"certifi/pkg/platform/httputil"
	"certifi/pkg/requestcontext"
)

const maxDocumentBytes = 2 << 20

// Service runs the analysis pipeline for one document.
type Service interface {
	ProcessText(ctx context.Context, text string, opts pipeline.Options) pipeline.CertificationRecord
}

// Handler serves the certification API.
type Handler struct {
	service Service
	store   records.Store
	audit   *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics

	claimBasedDefault bool
}

func New(service Service, store records.Store, auditPub *audit.Publisher,
	logger *slog.Logger, m *metrics.Metrics, claimBasedDefault bool) *Handler {
	return &Handler{
		service:           service,
		store:             store,
		audit:             auditPub,
		logger:            logger,
		metrics:           m,
		claimBasedDefault: claimBasedDefault,
	}
}

// Register mounts the analysis routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/analyze", h.handleAnalyze)
	r.Get("/records", h.handleListRecords)
	r.Get("/records/{id}", h.handleGetRecord)
}

type analyzeRequest struct {
	DocumentID    string   `json:"document_id"`
	Text          string   `json:"text"`
	Family        string   `json:"family,omitempty"`
	Tasks         []string `json:"tasks,omitempty"`
	UseClaimBased *bool    `json:"use_claim_based,omitempty"`
}

type analyzeResponse struct {
	DocumentID  string              `json:"document_id,omitempty"`
	RequestID   string              `json:"request_id,omitempty"`
	RecordID    string              `json:"record_id"`
	ProcessedAt time.Time           `json:"processed_at"`
	Duplicate   bool                `json:"duplicate"`
	DuplicateOf string              `json:"duplicate_of,omitempty"`
	Analysis    pipeline.Projection `json:"analysis"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	req, ok := httputil.Decode[analyzeRequest](w, r, h.logger)
	if !ok {
		return
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "document_id is required"))
		return
	}
	ctx = requestcontext.WithDocumentID(ctx, req.DocumentID)

	opts := pipeline.Options{UseClaimBased: h.claimBasedDefault}
	if req.UseClaimBased != nil {
		opts.UseClaimBased = *req.UseClaimBased
	}
	if req.Family != "" {
		family := classify.Family(req.Family)
		if !classify.KnownFamily(family) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "unknown document family"))
			return
		}
		opts.Family = family
	}

	rec := h.service.ProcessText(ctx, req.Text, opts)

	res, err := h.store.Save(ctx, rec)
	if err != nil {
		h.logger.ErrorContext(ctx, "record save failed", "record_id", rec.ID, "error", err)
		h.emit(ctx, audit.ActionSaveFailed, rec, err.Error())
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist record"))
		return
	}

	if res.Duplicate {
		if h.metrics != nil {
			h.metrics.DuplicateDocuments.Inc()
		}
		h.emit(ctx, audit.ActionDuplicate, rec, "canonical hash already certified as "+res.ExistingID)
	} else {
		h.emit(ctx, audit.ActionProcessed, rec, "")
	}

	httputil.WriteJSON(w, http.StatusOK, analyzeResponse{
		DocumentID:  req.DocumentID,
		RequestID:   requestcontext.RequestID(ctx),
		RecordID:    rec.ID,
		ProcessedAt: rec.ProcessedAt,
		Duplicate:   res.Duplicate,
		DuplicateOf: res.ExistingID,
		Analysis:    applyTasks(rec.Projection(), req.Tasks),
	})
}

// applyTasks trims optional response blocks to the requested task set.
// An empty list means no filtering; the stored record always keeps the
// full projection.
func applyTasks(p pipeline.Projection, tasks []string) pipeline.Projection {
	if len(tasks) == 0 {
		return p
	}
	want := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		want[strings.ToLower(strings.TrimSpace(t))] = true
	}
	if !want["holder"] {
		p.Holder = nil
	}
	if !want["claims"] {
		p.Claims = nil
	}
	return p
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.store.Get(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		httputil.WriteError(w, records.ErrNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "record lookup failed", "record_id", id, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record"))
		return
	}

	h.emit(ctx, audit.ActionRetrieved, rec, "")
	httputil.WriteJSON(w, http.StatusOK, rec.Projection())
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 100 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 1 and 100"))
			return
		}
		limit = v
	}

	recs, err := h.store.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "record listing failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records"))
		return
	}

	out := make([]pipeline.Projection, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Projection())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": out})
}

func (h *Handler) emit(ctx context.Context, action string, rec pipeline.CertificationRecord, detail string) {
	if h.audit == nil {
		return
	}
	verdict := "not_ready"
	if rec.Decision.Ready {
		verdict = "ready"
	}
	h.audit.Emit(ctx, audit.Event{
		Action:   action,
		RecordID: rec.ID,
		Family:   string(rec.Family),
		Policy:   string(rec.Policy.ID),
		Verdict:  verdict,
		Risk:     string(rec.Decision.Risk),
		Hash:     rec.CanonicalHash,
		Detail:   detail,
	})
}
