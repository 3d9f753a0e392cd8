// Package api exposes a read-only HTTP view of a running training session:
// cumulative counters fed by Hogwild workers and served as JSON.
package api

import (
	"math"
	"net/http"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

// Tracker accumulates live training counters. All methods are safe for
// concurrent use by any number of workers.
type Tracker struct {
	runID     string
	startedAt time.Time

	words     atomic.Uint64
	batches   atomic.Uint64
	truncated atomic.Uint64
	lossBits  atomic.Uint64
}

// NewTracker starts a tracker with a fresh run id.
func NewTracker() *Tracker {
	return &Tracker{
		runID:     "run_" + uuid.NewString(),
		startedAt: time.Now(),
	}
}

// RunID returns the session's unique identifier.
func (t *Tracker) RunID() string { return t.runID }

// ObserveBatch records one completed batch call.
func (t *Tracker) ObserveBatch(words int, truncated uint64, loss float64) {
	t.words.Add(uint64(words))
	t.batches.Add(1)
	if truncated > 0 {
		t.truncated.Add(truncated)
	}
	if loss != 0 {
		t.addLoss(loss)
	}
}

func (t *Tracker) addLoss(x float64) {
	for {
		old := t.lossBits.Load()
		next := math.Float64bits(math.Float64frombits(old) + x)
		if t.lossBits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Status is the JSON payload served to clients.
type Status struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	UptimeSeconds  float64   `json:"uptime_s"`
	WordsTrained   uint64    `json:"words_trained"`
	Batches        uint64    `json:"batches"`
	TruncatedWords uint64    `json:"truncated_words"`
	RunningLoss    float64   `json:"running_loss"`
	WordsPerSecond float64   `json:"words_per_sec"`
}

// Snapshot captures the current counters.
func (t *Tracker) Snapshot() Status {
	elapsed := time.Since(t.startedAt).Seconds()
	words := t.words.Load()
	s := Status{
		RunID:          t.runID,
		StartedAt:      t.startedAt,
		UptimeSeconds:  elapsed,
		WordsTrained:   words,
		Batches:        t.batches.Load(),
		TruncatedWords: t.truncated.Load(),
		RunningLoss:    math.Float64frombits(t.lossBits.Load()),
	}
	if elapsed > 0 {
		s.WordsPerSecond = float64(words) / elapsed
	}
	return s
}

// Server serves the status endpoints.
type Server struct {
	tracker *Tracker
}

func NewServer(tracker *Tracker) *Server {
	return &Server{tracker: tracker}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/status", s.handleStatus)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handleStatus(c *echo.Context) error {
	b, err := json.Marshal(s.tracker.Snapshot())
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, b)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
