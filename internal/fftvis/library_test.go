package fftvis

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLibraryNeedsEncodeForUnknownPath(t *testing.T) {
	lib := NewLibrary(filepath.Join(t.TempDir(), "library.json"))
	if !lib.NeedsEncode("/some/track.wav", "abc123") {
		t.Fatal("expected an unknown path to need encoding")
	}
}

func TestLibrarySkipsUnchangedAfterRecord(t *testing.T) {
	lib := NewLibrary(filepath.Join(t.TempDir(), "library.json"))
	lib.Record(LibraryEntry{
		SourcePath:  "/some/track.wav",
		OutputPath:  "/out/track.fvz",
		ContentHash: "abc123",
		NumBands:    64,
	})

	if lib.NeedsEncode("/some/track.wav", "abc123") {
		t.Error("expected unchanged hash to not need re-encoding")
	}
	if !lib.NeedsEncode("/some/track.wav", "different") {
		t.Error("expected changed hash to need re-encoding")
	}
}

func TestLibrarySaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	lib := NewLibrary(path)
	lib.Record(LibraryEntry{SourcePath: "a.wav", ContentHash: "h1"})
	if err := lib.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewLibrary(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, ok := reloaded.Lookup("a.wav")
	if !ok || e.ContentHash != "h1" {
		t.Fatalf("expected entry to round-trip, got %+v (ok=%v)", e, ok)
	}
}

func TestComputeFileHashStableAndSizeSensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.bin")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	h1, err := ComputeFileHash(path, 11)
	if err != nil {
		t.Fatalf("ComputeFileHash: %v", err)
	}
	h2, err := ComputeFileHash(path, 11)
	if err != nil {
		t.Fatalf("ComputeFileHash: %v", err)
	}
	if h1 != h2 {
		t.Error("expected hash to be stable across calls")
	}

	h3, err := ComputeFileHash(path, 12)
	if err != nil {
		t.Fatalf("ComputeFileHash: %v", err)
	}
	if h1 == h3 {
		t.Error("expected hash to change when declared size changes")
	}
}
