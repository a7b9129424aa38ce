package health

import (
	"errors"
	"sync"
	"testing"
)

func TestTracker_RecordSuccess(t *testing.T) {
	tr := NewTracker()

	tr.RecordError("https://example.com/v/1", errors.New("boom"))
	tr.RecordSuccess()
	tr.RecordSuccess()

	if got := tr.Processed(); got != 2 {
		t.Errorf("Expected 2 processed, got %d", got)
	}

	snap := tr.Snapshot()
	if snap.LastError != nil {
		t.Errorf("Expected last error cleared after success, got %+v", snap.LastError)
	}
	if snap.RecipesProcessed != 2 {
		t.Errorf("Expected 2 recipes processed in snapshot, got %d", snap.RecipesProcessed)
	}
}

func TestTracker_RecordError(t *testing.T) {
	tr := NewTracker()
	tr.RecordError("https://tiktok.com/@x/video/1", errors.New("download failed"))

	snap := tr.Snapshot()
	if snap.LastError == nil {
		t.Fatal("Expected last error to be recorded")
	}
	if snap.LastError.Error != "download failed" {
		t.Errorf("Expected error message, got %q", snap.LastError.Error)
	}
	if snap.LastError.URL != "https://tiktok.com/@x/video/1" {
		t.Errorf("Expected URL recorded, got %q", snap.LastError.URL)
	}
}

func TestTracker_NilErrorIgnored(t *testing.T) {
	tr := NewTracker()
	tr.RecordError("https://example.com", nil)

	if snap := tr.Snapshot(); snap.LastError != nil {
		t.Error("Expected nil error to be ignored")
	}
}

func TestTracker_ConcurrentUse(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.RecordSuccess()
		}()
		go func() {
			defer wg.Done()
			tr.Snapshot()
		}()
	}
	wg.Wait()

	if got := tr.Processed(); got != 50 {
		t.Errorf("Expected 50 processed, got %d", got)
	}
}

func TestTracker_SnapshotFields(t *testing.T) {
	snap := NewTracker().Snapshot()
	if snap.Status != "healthy" {
		t.Errorf("Expected healthy status, got %s", snap.Status)
	}
	if snap.Uptime == "" {
		t.Error("Expected uptime to be populated")
	}
}
