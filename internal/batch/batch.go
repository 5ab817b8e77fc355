// Package batch runs the encoder over a directory of audio files, skipping
// sources that are already up to date in the library ledger.
package batch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/austinkregel/fftvis/internal/audiosrc"
	"github.com/austinkregel/fftvis/internal/fftvis"
	"github.com/austinkregel/fftvis/internal/scan"
)

// ItemStatus reports the outcome of encoding a single candidate.
type ItemStatus int

const (
	StatusEncoded ItemStatus = iota
	StatusSkippedUnchanged
	StatusFailed
)

// ItemResult is delivered to OnResult for every candidate processed.
type ItemResult struct {
	SourcePath string
	OutputPath string
	Status     ItemStatus
	Err        error
}

// Config controls a batch encode run.
type Config struct {
	Profile      fftvis.EncodeProfile
	SourceRate   int // sample rate requested for non-WAV sources via ffmpeg
	OutDir       string
	Library      *fftvis.Library
	MaxWorkers   int // 0 = NumCPU
	OnResult     func(ItemResult)
}

// Encoder runs Config.Profile over a list of scan.Candidate with a bounded
// worker pool: jobs are dispatched over a channel to a fixed number of
// goroutines, and progress is tracked with atomic counters. OnResult is
// called directly from whichever worker finished the item, with no
// synchronization around the call.
type Encoder struct {
	cfg Config

	encodedCount int64
	skippedCount int64
	failedCount  int64
}

// NewEncoder creates a batch Encoder.
func NewEncoder(cfg Config) *Encoder {
	return &Encoder{cfg: cfg}
}

// Run encodes every candidate under root matching exts, consulting and
// updating the library ledger as it goes. It blocks until every candidate
// has been processed or ctx is cancelled.
func (e *Encoder) Run(ctx context.Context, root string, exts map[string]bool) error {
	candidates, err := scan.Walk(ctx, root, exts)
	if err != nil {
		return err
	}

	log.Printf("[BATCH] encoding %d candidates from %s", len(candidates), root)

	jobs := make(chan scan.Candidate, len(candidates))
	for _, c := range candidates {
		jobs <- c
	}
	close(jobs)

	workers := e.cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			e.worker(ctx, id, jobs)
		}(w)
	}
	wg.Wait()

	log.Printf("[BATCH] finished: %d encoded, %d skipped, %d failed",
		atomic.LoadInt64(&e.encodedCount), atomic.LoadInt64(&e.skippedCount), atomic.LoadInt64(&e.failedCount))
	return ctx.Err()
}

func (e *Encoder) worker(ctx context.Context, id int, jobs <-chan scan.Candidate) {
	for c := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := e.processOne(ctx, c)
		switch result.Status {
		case StatusEncoded:
			atomic.AddInt64(&e.encodedCount, 1)
		case StatusSkippedUnchanged:
			atomic.AddInt64(&e.skippedCount, 1)
		case StatusFailed:
			atomic.AddInt64(&e.failedCount, 1)
			log.Printf("[BATCH] worker %d: failed %s: %v", id, c.Path, result.Err)
		}

		if e.cfg.OnResult != nil {
			e.cfg.OnResult(result)
		}
	}
}

func (e *Encoder) processOne(ctx context.Context, c scan.Candidate) ItemResult {
	hash, err := fftvis.ComputeFileHash(c.Path, c.Size)
	if err != nil {
		return ItemResult{SourcePath: c.Path, Status: StatusFailed, Err: err}
	}

	if e.cfg.Library != nil && !e.cfg.Library.NeedsEncode(c.Path, hash) {
		return ItemResult{SourcePath: c.Path, Status: StatusSkippedUnchanged}
	}

	sampleRate, mono, err := audiosrc.Load(ctx, c.Path, e.cfg.SourceRate)
	if err != nil {
		return ItemResult{SourcePath: c.Path, Status: StatusFailed, Err: fmt.Errorf("loading audio: %w", err)}
	}

	enc := fftvis.NewEncoder(e.cfg.Profile)
	if err := enc.LoadAudio(sampleRate, mono); err != nil {
		return ItemResult{SourcePath: c.Path, Status: StatusFailed, Err: err}
	}
	if err := enc.GenerateFrames(ctx, nil); err != nil {
		return ItemResult{SourcePath: c.Path, Status: StatusFailed, Err: err}
	}

	base := filepath.Base(c.Path)
	ext := filepath.Ext(base)
	outPath := filepath.Join(e.cfg.OutDir, base[:len(base)-len(ext)]+".fvz")

	if err := enc.SaveToFile(outPath); err != nil {
		return ItemResult{SourcePath: c.Path, Status: StatusFailed, Err: err}
	}

	header, _, err := enc.GetFrames()
	if err != nil {
		return ItemResult{SourcePath: c.Path, Status: StatusFailed, Err: err}
	}

	if e.cfg.Library != nil {
		e.cfg.Library.Record(fftvis.LibraryEntry{
			SourcePath:   c.Path,
			OutputPath:   outPath,
			ContentHash:  hash,
			NumBands:     int(header.NumBands),
			TotalFrames:  int(header.TotalFrames),
			FrameRate:    int(header.FrameRate),
			MaxAmplitude: header.MaxAmplitude,
		})
	}

	return ItemResult{SourcePath: c.Path, OutputPath: outPath, Status: StatusEncoded}
}
