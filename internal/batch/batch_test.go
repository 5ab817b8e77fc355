package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/austinkregel/fftvis/internal/fftvis"
)

func writeDummyFile(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestBatchSkipsUnchangedFiles(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	trackPath := filepath.Join(srcDir, "track.wav")
	contents := []byte("not a real wav file, but a stable byte sequence")
	writeDummyFile(t, trackPath, contents)

	info, err := os.Stat(trackPath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	hash, err := fftvis.ComputeFileHash(trackPath, info.Size())
	if err != nil {
		t.Fatalf("ComputeFileHash: %v", err)
	}

	lib := fftvis.NewLibrary(filepath.Join(t.TempDir(), "library.json"))
	lib.Record(fftvis.LibraryEntry{SourcePath: trackPath, ContentHash: hash})

	var results []ItemResult
	enc := NewEncoder(Config{
		Profile: fftvis.DefaultProfile(),
		OutDir:  outDir,
		Library: lib,
		OnResult: func(r ItemResult) {
			results = append(results, r)
		},
	})

	if err := enc.Run(context.Background(), srcDir, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != StatusSkippedUnchanged {
		t.Errorf("expected StatusSkippedUnchanged, got %v (err=%v)", results[0].Status, results[0].Err)
	}
}

func TestBatchReportsFailureForUndecodableFile(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	trackPath := filepath.Join(srcDir, "track.wav")
	writeDummyFile(t, trackPath, []byte("not actually RIFF/WAVE data"))

	var results []ItemResult
	enc := NewEncoder(Config{
		Profile: fftvis.DefaultProfile(),
		OutDir:  outDir,
		OnResult: func(r ItemResult) {
			results = append(results, r)
		},
	})

	if err := enc.Run(context.Background(), srcDir, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != StatusFailed {
		t.Errorf("expected StatusFailed for an invalid WAV file, got %v", results[0].Status)
	}
}
