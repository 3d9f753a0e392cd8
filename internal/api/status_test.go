package api

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

func TestTrackerConcurrent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	const workers = 8
	const perWorker = 100
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				tr.ObserveBatch(10, 1, 0.5)
			}
		}()
	}
	wg.Wait()

	s := tr.Snapshot()
	if s.WordsTrained != workers*perWorker*10 {
		t.Fatalf("words = %d, want %d", s.WordsTrained, workers*perWorker*10)
	}
	if s.Batches != workers*perWorker {
		t.Fatalf("batches = %d, want %d", s.Batches, workers*perWorker)
	}
	if s.TruncatedWords != workers*perWorker {
		t.Fatalf("truncated = %d, want %d", s.TruncatedWords, workers*perWorker)
	}
	want := float64(workers*perWorker) * 0.5
	if diff := s.RunningLoss - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("loss = %v, want %v", s.RunningLoss, want)
	}
}

func TestStatusEndpoint(t *testing.T) {
	tr := NewTracker()
	tr.ObserveBatch(42, 0, 1.25)

	e := echo.New()
	NewServer(tr).Register(e)

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code %d, body %s", rec.Code, rec.Body.String())
	}
	var got Status
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if got.RunID != tr.RunID() {
		t.Fatalf("run id %q, want %q", got.RunID, tr.RunID())
	}
	if got.WordsTrained != 42 {
		t.Fatalf("words = %d, want 42", got.WordsTrained)
	}
	if got.RunningLoss != 1.25 {
		t.Fatalf("loss = %v, want 1.25", got.RunningLoss)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := echo.New()
	NewServer(NewTracker()).Register(e)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health: code %d body %q", rec.Code, rec.Body.String())
	}
}
