package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/seriesfit/internal/store"
)

func testRunConfig() store.RunConfig {
	return store.RunConfig{
		Method:         "Separable Evolution Strategy",
		Dim:            3,
		MaxIterations:  100,
		PopulationSize: 8,
	}
}

func TestSelectRunsForDeletion_ByAge(t *testing.T) {
	now := time.Now()
	infos := []store.CheckpointInfo{
		{RunID: "run1", Timestamp: now.AddDate(0, 0, -10)},
		{RunID: "run2", Timestamp: now.AddDate(0, 0, -5)},
		{RunID: "run3", Timestamp: now.AddDate(0, 0, -1)},
		{RunID: "run4", Timestamp: now.AddDate(0, 0, -30)},
	}

	toDelete := selectRunsForDeletion(infos, 0, 7)

	if len(toDelete) != 2 {
		t.Fatalf("Expected 2 runs to delete, got %d", len(toDelete))
	}

	found := make(map[string]bool)
	for _, info := range toDelete {
		found[info.RunID] = true
	}
	if !found["run1"] || !found["run4"] {
		t.Error("Expected run1 and run4 to be selected for deletion")
	}
}

func TestSelectRunsForDeletion_ByCount(t *testing.T) {
	now := time.Now()
	infos := []store.CheckpointInfo{
		{RunID: "run1", Timestamp: now.AddDate(0, 0, -10)},
		{RunID: "run2", Timestamp: now.AddDate(0, 0, -5)},
		{RunID: "run3", Timestamp: now.AddDate(0, 0, -1)},
		{RunID: "run4", Timestamp: now.AddDate(0, 0, -30)},
	}

	toDelete := selectRunsForDeletion(infos, 2, 0)

	if len(toDelete) != 2 {
		t.Fatalf("Expected 2 runs to delete, got %d", len(toDelete))
	}

	found := make(map[string]bool)
	for _, info := range toDelete {
		found[info.RunID] = true
	}
	if !found["run1"] || !found["run4"] {
		t.Error("Expected the two oldest runs (run1, run4) to be selected")
	}
}

func TestSelectRunsForDeletion_Combined(t *testing.T) {
	now := time.Now()
	infos := []store.CheckpointInfo{
		{RunID: "run1", Timestamp: now.AddDate(0, 0, -10)},
		{RunID: "run2", Timestamp: now.AddDate(0, 0, -5)},
		{RunID: "run3", Timestamp: now.AddDate(0, 0, -1)},
		{RunID: "run4", Timestamp: now.AddDate(0, 0, -30)},
		{RunID: "run5", Timestamp: now.AddDate(0, 0, -2)},
	}

	toDelete := selectRunsForDeletion(infos, 3, 7)

	// Age selects run1 and run4; count keeps the newest 3 and marks the
	// same two, without duplicating them.
	if len(toDelete) != 2 {
		t.Fatalf("Expected 2 runs to delete, got %d", len(toDelete))
	}
}

func TestGetDirSize(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("Hello, World!")
	if err := os.WriteFile(filepath.Join(tmpDir, "test.txt"), content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	size, err := getDirSize(tmpDir)
	if err != nil {
		t.Fatalf("getDirSize failed: %v", err)
	}
	if size < int64(len(content)) {
		t.Errorf("Expected size >= %d, got %d", len(content), size)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tt := range tests {
		result := formatBytes(tt.bytes)
		if result != tt.expected {
			t.Errorf("formatBytes(%d) = %s, expected %s", tt.bytes, result, tt.expected)
		}
	}
}

func TestRunsListCommand_NoRuns(t *testing.T) {
	tmpDir := t.TempDir()

	originalDataDir := runsDataDir
	runsDataDir = tmpDir
	defer func() { runsDataDir = originalDataDir }()

	if err := runListRuns(nil, nil); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestRunsListCommand_WithRuns(t *testing.T) {
	tmpDir := t.TempDir()

	runStore, err := store.NewFSStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	checkpoint := store.NewCheckpoint("test-run-id", []float64{1, 2, 3}, 0.5, 1.0, 10, testRunConfig())
	if err := runStore.SaveCheckpoint("test-run-id", checkpoint); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	originalDataDir := runsDataDir
	runsDataDir = tmpDir
	defer func() { runsDataDir = originalDataDir }()

	if err := runListRuns(nil, nil); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestRunsCleanCommand_NoFlags(t *testing.T) {
	tmpDir := t.TempDir()

	originalDataDir := runsDataDir
	runsDataDir = tmpDir
	defer func() { runsDataDir = originalDataDir }()

	keepLast = 0
	olderThanDays = 0

	if err := runCleanRuns(nil, nil); err == nil {
		t.Error("Expected error when no flags specified")
	}
}

func TestRunsCleanCommand_WithForce(t *testing.T) {
	tmpDir := t.TempDir()

	runStore, err := store.NewFSStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	checkpoint := store.NewCheckpoint("old-run", []float64{1, 2, 3}, 0.5, 1.0, 10, testRunConfig())
	checkpoint.Timestamp = time.Now().AddDate(0, 0, -30)
	if err := runStore.SaveCheckpoint("old-run", checkpoint); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	originalDataDir := runsDataDir
	runsDataDir = tmpDir
	defer func() { runsDataDir = originalDataDir }()

	keepLast = 0
	olderThanDays = 7
	forceClean = true

	if err := runCleanRuns(nil, nil); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if _, err := runStore.LoadCheckpoint("old-run"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected run to be deleted, got %v", err)
	}
}
