package echo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
)

func TestGetStatusReturnsBatch(t *testing.T) {
	t.Parallel()

	e, ucs := newTestServer(t)
	ucs.getStatus.output = app.GetBatchStatusOutput{
		BatchID:    "batch-1",
		Status:     "completed",
		Priority:   "normal",
		UploadedAt: time.Date(2026, 2, 22, 14, 31, 0, 0, time.UTC),
	}

	req := httptest.NewRequest(http.MethodGet, "/status/batch-1", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ucs.getStatus.gotIn.UserID != "user-1" || ucs.getStatus.gotIn.BatchID != "batch-1" {
		t.Errorf("unexpected input: %+v", ucs.getStatus.gotIn)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	if got["status"] != "completed" {
		t.Fatalf("unexpected status: %#v", got["status"])
	}
}

func TestGetStatusNotFound(t *testing.T) {
	t.Parallel()

	e, ucs := newTestServer(t)
	ucs.getStatus.err = app.ErrBatchNotFound

	req := httptest.NewRequest(http.MethodGet, "/status/missing", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetStatusForbidden(t *testing.T) {
	t.Parallel()

	e, ucs := newTestServer(t)
	ucs.getStatus.err = app.ErrBatchForbidden

	req := httptest.NewRequest(http.MethodGet, "/status/other-users", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestListBatchesForwardsFilters(t *testing.T) {
	t.Parallel()

	e, ucs := newTestServer(t)
	ucs.list.output = app.ListBatchesOutput{Batches: []app.BatchSummaryOutput{}, Limit: 25, Offset: 10}

	req := httptest.NewRequest(http.MethodGet, "/batches?status=failed&start_date=2026-02-01&end_date=2026-02-28&limit=25&offset=10", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	in := ucs.list.gotIn
	if in.UserID != "user-1" || in.Status != "failed" || in.StartDate != "2026-02-01" || in.EndDate != "2026-02-28" {
		t.Errorf("unexpected input: %+v", in)
	}
	if in.Limit == nil || *in.Limit != 25 || in.Offset != 10 {
		t.Errorf("unexpected pagination: limit=%v offset=%d", in.Limit, in.Offset)
	}
}

func TestListBatchesRejectsNonNumericLimit(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/batches?limit=many", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListBatchesValidationError(t *testing.T) {
	t.Parallel()

	e, ucs := newTestServer(t)
	ucs.list.err = &app.ValidationError{Details: []string{"limit must be between 1 and 100"}}

	req := httptest.NewRequest(http.MethodGet, "/batches?limit=500", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDownloadRedirects(t *testing.T) {
	t.Parallel()

	e, ucs := newTestServer(t)
	ucs.download.output = app.DownloadArtifactOutput{URL: "https://r2.example.com/signed"}

	req := httptest.NewRequest(http.MethodGet, "/download/batch-1/transcript", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "https://r2.example.com/signed" {
		t.Fatalf("unexpected location: %q", loc)
	}
	if ucs.download.gotIn.ArtifactType != "transcript" {
		t.Errorf("artifact type = %q", ucs.download.gotIn.ArtifactType)
	}
}

func TestDownloadArtifactNotAvailable(t *testing.T) {
	t.Parallel()

	e, ucs := newTestServer(t)
	ucs.download.err = app.ErrArtifactNotAvailable

	req := httptest.NewRequest(http.MethodGet, "/download/batch-1/cleaned-audio", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDownloadUnknownType(t *testing.T) {
	t.Parallel()

	e, ucs := newTestServer(t)
	ucs.download.err = &app.ValidationError{Details: []string{`unrecognized artifact type "thumbnails"`}}

	req := httptest.NewRequest(http.MethodGet, "/download/batch-1/thumbnails", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
