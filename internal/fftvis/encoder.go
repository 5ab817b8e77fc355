package fftvis

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
)

// ProgressFunc is invoked by worker goroutines as frames complete. The
// callback must tolerate concurrent invocation; no synchronization is
// added around it.
type ProgressFunc func(done, total int)

// Encoder converts loaded audio into a frame set and serializes it through
// the transform cascade. An instance is constructed with a profile, loads
// audio once, generates frames once, then may be serialized any number of
// times.
type Encoder struct {
	profile EncodeProfile
	builder *Builder

	sampleRate int
	samples    []float64

	loaded    bool
	generated bool

	frames       [][]float64
	maxAmplitude float64
}

// NewEncoder creates an Encoder from a profile.
func NewEncoder(profile EncodeProfile) *Encoder {
	return &Encoder{
		profile: profile,
		builder: NewBuilder(profile.Builder),
	}
}

// LoadAudio supplies the mono PCM samples and sample rate the encoder will
// operate on. It may be called only once per Encoder.
func (e *Encoder) LoadAudio(sampleRate int, mono []float64) error {
	if e.loaded {
		return newErr(ErrEncoderPrecondition, "loadAudio called more than once", nil)
	}
	if sampleRate <= 0 {
		return newErr(ErrEncoderPrecondition, "sample rate must be positive", nil)
	}
	e.sampleRate = sampleRate
	e.samples = mono
	e.loaded = true
	return nil
}

// GenerateFrames windows the loaded audio and runs FrameBuilder across every
// window, in parallel across a bounded worker pool. Per spec, the frames
// slice is disjoint per worker so no locking is required; maxAmplitude is
// combined across workers via an atomic max over its IEEE-754 bit pattern.
func (e *Encoder) GenerateFrames(ctx context.Context, progress ProgressFunc) error {
	if !e.loaded {
		return newErr(ErrEncoderPrecondition, "generateFrames called before loadAudio", nil)
	}

	fftRes := e.profile.Builder.FFTResolution
	hop := float64(e.sampleRate) / float64(e.profile.FPS)
	n := len(e.samples)

	raw := float64(n-fftRes)/hop + 1
	total := int(math.Ceil(math.Max(0, raw)))

	frames := make([][]float64, total)

	workers := e.profile.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if total > 0 && workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, total)
	for i := 0; i < total; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	var maxBits atomic.Uint64
	var done atomic.Int64
	var cancelled atomic.Bool

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Build mutates its Builder, so each worker uses its own.
			builder := NewBuilder(e.profile.Builder)
			for idx := range jobs {
				if cancelled.Load() {
					continue
				}
				select {
				case <-ctx.Done():
					cancelled.Store(true)
					continue
				default:
				}

				window := e.extractWindow(idx, hop, fftRes)
				frame, localMax := builder.Build(window, e.sampleRate)
				frames[idx] = frame
				atomicMaxFloat64(&maxBits, localMax)

				n := done.Add(1)
				if progress != nil {
					progress(int(n), total)
				}
			}
		}()
	}
	wg.Wait()

	if cancelled.Load() {
		return newErr(ErrEncoderPrecondition, "frame generation cancelled", ctx.Err())
	}

	e.frames = frames
	e.maxAmplitude = math.Float64frombits(maxBits.Load())
	e.generated = true
	return nil
}

func (e *Encoder) extractWindow(i int, hop float64, fftRes int) []float64 {
	start := int(math.Round(float64(i) * hop))
	window := make([]float64, fftRes)
	n := len(e.samples)
	for j := 0; j < fftRes; j++ {
		si := start + j
		if si >= 0 && si < n {
			window[j] = e.samples[si]
		}
	}
	return window
}

// atomicMaxFloat64 raises *bits to max(*bits, v) using a CAS loop. It never
// lowers the stored value, so concurrent callers racing here are benign.
func atomicMaxFloat64(bits *atomic.Uint64, v float64) {
	if math.IsNaN(v) {
		return
	}
	next := math.Float64bits(v)
	for {
		old := bits.Load()
		if math.Float64frombits(old) >= v {
			return
		}
		if bits.CompareAndSwap(old, next) {
			return
		}
	}
}

func (e *Encoder) header() Header {
	return Header{
		FFTResolution:   uint32(e.profile.Builder.FFTResolution),
		NumBands:        uint16(e.profile.Builder.BarCount),
		FrameRate:       uint16(e.profile.FPS),
		TotalFrames:     uint32(len(e.frames)),
		MaxAmplitude:    float32(e.maxAmplitude),
		CompressionType: e.profile.CompressionMask,
		QuantizeLevel:   e.profile.QuantizeLevel,
	}
}

// GetFrames returns the in-memory header and frame set produced by the last
// call to GenerateFrames.
func (e *Encoder) GetFrames() (Header, [][]float64, error) {
	if !e.generated {
		return Header{}, nil, newErr(ErrEncoderPrecondition, "frames not generated", nil)
	}
	return e.header(), e.frames, nil
}

// SaveToMemory serializes the generated frames through the transform
// cascade and returns the resulting .fvz byte buffer.
func (e *Encoder) SaveToMemory() ([]byte, error) {
	if !e.generated {
		return nil, newErr(ErrEncoderPrecondition, "saving before frames generated", nil)
	}

	h := e.header()
	headerBytes := encodeHeader(h)
	payload := encodePayload(e.frames, int(h.NumBands), h.CompressionType, h.QuantizeLevel)

	if !h.CompressionType.hasZstd() {
		out := make([]byte, 0, HeaderSize+len(payload))
		out = append(out, headerBytes[:]...)
		out = append(out, payload...)
		return out, nil
	}

	compress := e.profile.Compressor
	if compress == nil {
		compress = ZstdCompress
	}
	compressed, err := compress(payload)
	if err != nil {
		return nil, newErr(ErrDecompressionFailed, "compressing payload", err)
	}

	lenPrefix := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenPrefix, uint32(int32(len(compressed))))

	out := make([]byte, 0, HeaderSize+4+len(compressed))
	out = append(out, headerBytes[:]...)
	out = append(out, lenPrefix...)
	out = append(out, compressed...)
	return out, nil
}

// SaveToFile writes the serialized frame set to path, appending the .fvz
// extension if the caller omitted one.
func (e *Encoder) SaveToFile(path string) error {
	data, err := e.SaveToMemory()
	if err != nil {
		return err
	}
	if filepath.Ext(path) == "" {
		path += ".fvz"
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return newErr(ErrIOFailed, "writing output file", err)
	}
	return nil
}
