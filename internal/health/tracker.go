// Package health tracks process-level counters surfaced by the /health
// endpoint: uptime, number of recipes processed, and the most recent error.
// The tracker is created once at startup and injected wherever submissions
// are processed; counters tolerate concurrent use.
package health

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// LastError records the most recent failed submission.
type LastError struct {
	Time  time.Time `json:"time"`
	Error string    `json:"error"`
	URL   string    `json:"url"`
}

// MemoryStats is a reduced runtime.MemStats snapshot, in megabytes.
type MemoryStats struct {
	AllocMB     float64 `json:"alloc_mb"`
	SysMB       float64 `json:"sys_mb"`
	HeapInuseMB float64 `json:"heap_inuse_mb"`
	NumGC       uint32  `json:"num_gc"`
}

// Snapshot is the state returned by the /health endpoint.
type Snapshot struct {
	Status           string      `json:"status"`
	Uptime           string      `json:"uptime"`
	RecipesProcessed int64       `json:"recipes_processed"`
	LastError        *LastError  `json:"last_error"`
	Memory           MemoryStats `json:"memory"`
}

// Tracker holds the process health counters.
type Tracker struct {
	startedAt time.Time
	processed atomic.Int64

	mu      sync.Mutex
	lastErr *LastError
}

// NewTracker returns a Tracker anchored at the current time.
func NewTracker() *Tracker {
	return &Tracker{startedAt: time.Now()}
}

// RecordSuccess increments the processed counter and clears the last error.
func (t *Tracker) RecordSuccess() {
	t.processed.Add(1)

	t.mu.Lock()
	t.lastErr = nil
	t.mu.Unlock()
}

// RecordError stores err as the most recent failure.
func (t *Tracker) RecordError(url string, err error) {
	if err == nil {
		return
	}

	t.mu.Lock()
	t.lastErr = &LastError{
		Time:  time.Now(),
		Error: err.Error(),
		URL:   url,
	}
	t.mu.Unlock()
}

// Processed returns the number of successfully processed submissions.
func (t *Tracker) Processed() int64 {
	return t.processed.Load()
}

// Snapshot assembles the current health state.
func (t *Tracker) Snapshot() Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	t.mu.Lock()
	var lastErr *LastError
	if t.lastErr != nil {
		cp := *t.lastErr
		lastErr = &cp
	}
	t.mu.Unlock()

	return Snapshot{
		Status:           "healthy",
		Uptime:           time.Since(t.startedAt).Round(time.Second).String(),
		RecipesProcessed: t.processed.Load(),
		LastError:        lastErr,
		Memory: MemoryStats{
			AllocMB:     float64(ms.Alloc) / 1024 / 1024,
			SysMB:       float64(ms.Sys) / 1024 / 1024,
			HeapInuseMB: float64(ms.HeapInuse) / 1024 / 1024,
			NumGC:       ms.NumGC,
		},
	}
}
