package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestStore creates a temporary directory and returns an FSStore for testing.
func setupTestStore(t *testing.T) (*FSStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	return store, tempDir
}

// createTestCheckpoint creates a checkpoint with test data.
func createTestCheckpoint(runID string) *Checkpoint {
	return &Checkpoint{
		RunID:        runID,
		BestParams:   []float64{0.0151, 498.7},
		BestScore:    12.5,
		InitialScore: 8041.2,
		Iteration:    50,
		Timestamp:    time.Now(),
		Config: RunConfig{
			Method:         "Separable Evolution Strategy",
			Dim:            2,
			MaxIterations:  200,
			PopulationSize: 6,
			Seed:           42,
		},
	}
}

func TestNewFSStore(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	if store == nil {
		t.Fatal("Expected non-nil store")
	}
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Fatal("Base directory was not created")
	}
}

func TestSaveAndLoadCheckpoint(t *testing.T) {
	store, tempDir := setupTestStore(t)

	runID := "test-run-123"
	checkpoint := createTestCheckpoint(runID)

	if err := store.SaveCheckpoint(runID, checkpoint); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "runs", runID, "checkpoint.json")
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Fatalf("Checkpoint file was not created at %s", expectedPath)
	}

	loaded, err := store.LoadCheckpoint(runID)
	if err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}
	if loaded.RunID != runID {
		t.Errorf("RunID = %s, want %s", loaded.RunID, runID)
	}
	if loaded.BestScore != checkpoint.BestScore {
		t.Errorf("BestScore = %v, want %v", loaded.BestScore, checkpoint.BestScore)
	}
	if len(loaded.BestParams) != len(checkpoint.BestParams) {
		t.Fatalf("BestParams length = %d, want %d", len(loaded.BestParams), len(checkpoint.BestParams))
	}
	for i := range loaded.BestParams {
		if loaded.BestParams[i] != checkpoint.BestParams[i] {
			t.Errorf("BestParams[%d] = %v, want %v", i, loaded.BestParams[i], checkpoint.BestParams[i])
		}
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("loaded checkpoint failed validation: %v", err)
	}
}

func TestSaveCheckpointValidation(t *testing.T) {
	store, _ := setupTestStore(t)

	if err := store.SaveCheckpoint("", createTestCheckpoint("x")); err == nil {
		t.Fatal("expected error for empty runID")
	}
	if err := store.SaveCheckpoint("x", nil); err == nil {
		t.Fatal("expected error for nil checkpoint")
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	store, _ := setupTestStore(t)

	runID := "overwrite-run"
	first := createTestCheckpoint(runID)
	if err := store.SaveCheckpoint(runID, first); err != nil {
		t.Fatalf("first SaveCheckpoint failed: %v", err)
	}

	second := createTestCheckpoint(runID)
	second.BestScore = 1.0
	second.Iteration = 100
	if err := store.SaveCheckpoint(runID, second); err != nil {
		t.Fatalf("second SaveCheckpoint failed: %v", err)
	}

	loaded, err := store.LoadCheckpoint(runID)
	if err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}
	if loaded.BestScore != 1.0 || loaded.Iteration != 100 {
		t.Errorf("expected overwritten checkpoint, got score=%v iteration=%d", loaded.BestScore, loaded.Iteration)
	}
}

func TestLoadMissingCheckpoint(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.LoadCheckpoint("does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCheckpoints(t *testing.T) {
	store, _ := setupTestStore(t)

	infos, err := store.ListCheckpoints()
	if err != nil {
		t.Fatalf("ListCheckpoints failed: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected no checkpoints, got %d", len(infos))
	}

	for _, id := range []string{"run-a", "run-b"} {
		if err := store.SaveCheckpoint(id, createTestCheckpoint(id)); err != nil {
			t.Fatalf("SaveCheckpoint(%s) failed: %v", id, err)
		}
	}

	infos, err = store.ListCheckpoints()
	if err != nil {
		t.Fatalf("ListCheckpoints failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 checkpoints, got %d", len(infos))
	}
	for _, info := range infos {
		if info.Method != "Separable Evolution Strategy" || info.Dim != 2 {
			t.Errorf("unexpected metadata: %+v", info)
		}
	}
}

func TestDeleteCheckpoint(t *testing.T) {
	store, tempDir := setupTestStore(t)

	runID := "delete-run"
	if err := store.SaveCheckpoint(runID, createTestCheckpoint(runID)); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	if err := store.DeleteCheckpoint(runID); err != nil {
		t.Fatalf("DeleteCheckpoint failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "runs", runID)); !os.IsNotExist(err) {
		t.Fatal("run directory should be removed")
	}

	if err := store.DeleteCheckpoint(runID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}
