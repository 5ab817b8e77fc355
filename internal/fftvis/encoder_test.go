package fftvis

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestEncoderPreconditions(t *testing.T) {
	enc := NewEncoder(DefaultProfile())

	if _, _, err := enc.GetFrames(); err == nil {
		t.Fatal("expected error calling GetFrames before GenerateFrames")
	}
	if _, err := enc.SaveToMemory(); err == nil {
		t.Fatal("expected error calling SaveToMemory before GenerateFrames")
	}
	if err := enc.GenerateFrames(context.Background(), nil); err == nil {
		t.Fatal("expected error calling GenerateFrames before LoadAudio")
	}
	if err := enc.LoadAudio(-1, nil); err == nil {
		t.Fatal("expected error for non-positive sample rate")
	}
}

func TestEncoderGenerateFramesAndSaveRoundTrip(t *testing.T) {
	profile := DefaultProfile()
	profile.Builder.FFTResolution = 512
	profile.Builder.BarCount = 16
	profile.FPS = 10
	profile.CompressionMask = MaskZstd | MaskQuant | MaskDelta
	profile.QuantizeLevel = Quantize16

	enc := NewEncoder(profile)
	samples := testSignal(44100, 44100, 220)
	if err := enc.LoadAudio(44100, samples); err != nil {
		t.Fatalf("LoadAudio: %v", err)
	}

	var lastDone atomic.Int64
	err := enc.GenerateFrames(context.Background(), func(done, total int) {
		lastDone.Store(int64(done))
	})
	if err != nil {
		t.Fatalf("GenerateFrames: %v", err)
	}
	if lastDone.Load() == 0 {
		t.Fatal("progress callback never invoked")
	}

	header, frames, err := enc.GetFrames()
	if err != nil {
		t.Fatalf("GetFrames: %v", err)
	}
	if int(header.TotalFrames) != len(frames) {
		t.Fatalf("header.TotalFrames=%d but len(frames)=%d", header.TotalFrames, len(frames))
	}

	var observedMax float64
	for _, frame := range frames {
		for _, v := range frame {
			if v < 0 || v > 1 {
				t.Fatalf("frame value out of [0,1]: %v", v)
			}
			if v > observedMax {
				observedMax = v
			}
		}
	}
	if header.MaxAmplitude != float32(observedMax) {
		t.Errorf("header.MaxAmplitude=%v does not match observed max %v", header.MaxAmplitude, observedMax)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out")
	if err := enc.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	data, err := os.ReadFile(path + ".fvz")
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}

	gotHeader, gotFrames, err := ReadFile(data, ZstdDecompress)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if gotHeader.NumBands != header.NumBands || gotHeader.TotalFrames != header.TotalFrames {
		t.Fatalf("round-tripped header mismatch: %+v vs %+v", gotHeader, header)
	}
	if !framesEqual(frames, gotFrames, 1.0/32767) {
		t.Error("round-tripped frames diverge beyond 16-bit delta tolerance")
	}
}

func TestEncoderLoadAudioRejectsDoubleLoad(t *testing.T) {
	enc := NewEncoder(DefaultProfile())
	if err := enc.LoadAudio(44100, make([]float64, 1024)); err != nil {
		t.Fatalf("LoadAudio: %v", err)
	}
	if err := enc.LoadAudio(44100, make([]float64, 1024)); err == nil {
		t.Fatal("expected error on second LoadAudio call")
	}
}

func TestAtomicMaxFloat64OnlyRaises(t *testing.T) {
	var bits atomic.Uint64
	atomicMaxFloat64(&bits, 0.5)
	atomicMaxFloat64(&bits, 0.2)
	if got := math.Float64frombits(bits.Load()); got != 0.5 {
		t.Errorf("expected max to stay at 0.5, got %v", got)
	}
	atomicMaxFloat64(&bits, 0.9)
	if got := math.Float64frombits(bits.Load()); got != 0.9 {
		t.Errorf("expected max to rise to 0.9, got %v", got)
	}
}
