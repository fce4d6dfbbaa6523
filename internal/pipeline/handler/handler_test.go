package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certifi/internal/audit"
	"certifi/internal/pipeline"
	"certifi/internal/platform/metrics"
	"certifi/internal/records"
)

const engagementLetter = `ENGAGEMENT LETTER

Dear Franco,

This letter certifies that consulting services are provided by EXAMPLE COMPANY ("Service Provider") and requested by Franco (Client).

The Service Provider is engaged as an independent contractor.
Description of Services: software architecture consulting and systems integration
Effective Date: 2026-01-21
Compensation: USD 3,000.00 per month payable in advance`

type fixture struct {
	router  chi.Router
	store   *records.MemoryStore
	pub     *audit.Publisher
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWith(prometheus.NewRegistry())
	store := records.NewMemory()
	pub := audit.NewPublisher(logger, m)

	h := New(pipeline.NewService(logger, nil), store, pub, logger, m, false)
	router := chi.NewRouter()
	h.Register(router)

	return &fixture{router: router, store: store, pub: pub, metrics: m}
}

func (f *fixture) analyze(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func Test_HandleAnalyze_EngagementLetter(t *testing.T) {
	f := newFixture(t)

	body, err := json.Marshal(map[string]any{
		"document_id": "doc-1",
		"text":        engagementLetter,
	})
	require.NoError(t, err)

	w := f.analyze(t, string(body))
	require.Equal(t, http.StatusOK, w.Code)

	var resp analyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.NotEmpty(t, resp.RecordID)
	assert.False(t, resp.Duplicate)
	assert.Equal(t, "contract", resp.Analysis.DocumentFamily)
	assert.Equal(t, "engagement_letter", resp.Analysis.DocumentType)
	assert.True(t, resp.Analysis.CertificationReady)
	require.NotNil(t, resp.Analysis.Claims)
	assert.Equal(t, "EXAMPLE COMPANY", resp.Analysis.Claims.Subject)

	// The record is retrievable afterwards.
	stored, err := f.store.Get(t.Context(), resp.RecordID)
	require.NoError(t, err)
	assert.Equal(t, resp.Analysis.CanonicalHash, stored.CanonicalHash)
}

func Test_HandleAnalyze_MissingDocumentID(t *testing.T) {
	f := newFixture(t)

	w := f.analyze(t, `{"text":"some document"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_failed")
}

func Test_HandleAnalyze_UnknownFamily(t *testing.T) {
	f := newFixture(t)

	w := f.analyze(t, `{"document_id":"doc-1","text":"x","family":"screenplay"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown document family")
}

func Test_HandleAnalyze_MalformedBody(t *testing.T) {
	f := newFixture(t)

	w := f.analyze(t, `{"document_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_HandleAnalyze_DuplicateDetection(t *testing.T) {
	f := newFixture(t)
	body := `{"document_id":"doc-1","text":` + mustJSON(engagementLetter) + `}`

	w := f.analyze(t, body)
	require.Equal(t, http.StatusOK, w.Code)
	var first analyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&first))

	w = f.analyze(t, body)
	require.Equal(t, http.StatusOK, w.Code)
	var second analyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&second))

	assert.True(t, second.Duplicate)
	assert.Equal(t, first.RecordID, second.DuplicateOf)
	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.DuplicateDocuments))
}

func Test_HandleGetRecord_NotFound(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/records/does-not-exist", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func Test_HandleGetRecord_ReturnsProjection(t *testing.T) {
	f := newFixture(t)

	w := f.analyze(t, `{"document_id":"doc-1","text":`+mustJSON(engagementLetter)+`}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp analyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	req := httptest.NewRequest(http.MethodGet, "/records/"+resp.RecordID, nil)
	rw := httptest.NewRecorder()
	f.router.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	var got pipeline.Projection
	require.NoError(t, json.NewDecoder(rw.Body).Decode(&got))
	assert.Equal(t, resp.Analysis.CanonicalHash, got.CanonicalHash)
	assert.Equal(t, "contract", got.DocumentFamily)
}

func Test_HandleListRecords_LimitValidation(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/records?limit=0", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/records?limit=10", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_HandleAnalyze_EmitsAuditEvent(t *testing.T) {
	f := newFixture(t)

	w := f.analyze(t, `{"document_id":"doc-1","text":`+mustJSON(engagementLetter)+`}`)
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case event := <-f.pub.Queue():
		assert.Equal(t, audit.ActionProcessed, event.Action)
		assert.Equal(t, "contract", event.Family)
		assert.Equal(t, "ready", event.Verdict)
		assert.Equal(t, "doc-1", event.DocumentID)
	default:
		t.Fatal("expected an audit event on the queue")
	}
}

func Test_HandleAnalyze_TasksFilterResponseBlocks(t *testing.T) {
	f := newFixture(t)

	w := f.analyze(t, `{"document_id":"doc-1","tasks":["classify","extract"],"text":`+mustJSON(engagementLetter)+`}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp analyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "contract", resp.Analysis.DocumentFamily)
	assert.Nil(t, resp.Analysis.Claims)
	assert.Nil(t, resp.Analysis.Holder)

	// The stored record keeps the full projection.
	stored, err := f.store.Get(t.Context(), resp.RecordID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Projection().Claims)
	assert.NotNil(t, stored.Holder)
}

func Test_HandleAnalyze_NoTasksReturnsEverything(t *testing.T) {
	f := newFixture(t)

	w := f.analyze(t, `{"document_id":"doc-1","text":`+mustJSON(engagementLetter)+`}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp analyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotNil(t, resp.Analysis.Claims)
	assert.NotNil(t, resp.Analysis.Holder)
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
