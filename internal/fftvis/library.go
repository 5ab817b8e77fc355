package fftvis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const hashSampleSize = 64 * 1024

// LibraryEntry records the last successful encode of one source file.
type LibraryEntry struct {
	SourcePath   string    `json:"sourcePath"`
	OutputPath   string    `json:"outputPath"`
	ContentHash  string    `json:"contentHash"`
	NumBands     int       `json:"numBands"`
	TotalFrames  int       `json:"totalFrames"`
	FrameRate    int       `json:"frameRate"`
	MaxAmplitude float32   `json:"maxAmplitude"`
	EncodedAt    time.Time `json:"encodedAt"`
}

// Library is a JSON-backed ledger of encoded files, consulted by the batch
// encoder to skip re-encoding unchanged sources.
type Library struct {
	mu      sync.RWMutex
	path    string
	entries map[string]LibraryEntry
}

// NewLibrary creates a ledger backed by the JSON file at path.
func NewLibrary(path string) *Library {
	return &Library{
		path:    path,
		entries: make(map[string]LibraryEntry),
	}
}

// Load reads the ledger from disk, replacing the in-memory entries. A
// missing file is not an error; the ledger starts empty.
func (l *Library) Load() error {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return newErr(ErrIOFailed, "reading library ledger", err)
	}

	var entries map[string]LibraryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return newErr(ErrIOFailed, "parsing library ledger", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = entries
	return nil
}

// Save writes the ledger to disk as indented JSON.
func (l *Library) Save() error {
	l.mu.RLock()
	data, err := json.MarshalIndent(l.entries, "", "  ")
	l.mu.RUnlock()
	if err != nil {
		return newErr(ErrIOFailed, "encoding library ledger", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return newErr(ErrIOFailed, "writing library ledger", err)
	}
	return nil
}

// Lookup returns the recorded entry for a source path, if any.
func (l *Library) Lookup(sourcePath string) (LibraryEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[sourcePath]
	return e, ok
}

// NeedsEncode reports whether sourcePath has no recorded entry or its
// content hash no longer matches currentHash.
func (l *Library) NeedsEncode(sourcePath, currentHash string) bool {
	e, ok := l.Lookup(sourcePath)
	return !ok || e.ContentHash != currentHash
}

// Record stores or replaces the ledger entry for a source path, stamping
// EncodedAt with the current time if the caller left it zero. Callers must
// call Save to persist it.
func (l *Library) Record(entry LibraryEntry) {
	if entry.EncodedAt.IsZero() {
		entry.EncodedAt = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[entry.SourcePath] = entry
}

// ComputeFileHash hashes a file's path, size, and the first and last 64KB
// of its content, so unchanged files can be recognized without hashing
// the entire body of large audio sources.
func ComputeFileHash(path string, size int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	fmt.Fprintf(h, "%s:%d", path, size)

	head := make([]byte, hashSampleSize)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading head of %s: %w", path, err)
	}
	h.Write(head[:n])

	if size > hashSampleSize {
		tailStart := size - hashSampleSize
		if tailStart < int64(n) {
			tailStart = int64(n)
		}
		if _, err := f.Seek(tailStart, io.SeekStart); err != nil {
			return "", fmt.Errorf("seeking tail of %s: %w", path, err)
		}
		tail := make([]byte, hashSampleSize)
		tn, err := f.Read(tail)
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("reading tail of %s: %w", path, err)
		}
		h.Write(tail[:tn])
	}

	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
