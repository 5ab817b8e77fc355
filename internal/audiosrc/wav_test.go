package audiosrc

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, path string, left, right []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, 8000, 16, 2, 1)
	data := make([]int, 0, len(left)*2)
	for i := range left {
		data = append(data, left[i], right[i])
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestLoadWAVDownmixesStereoToMono(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stereo.wav")

	left := []int{16384, -16384, 0}
	right := []int{16384, 16384, 0}
	writeTestWAV(t, path, left, right)

	sampleRate, mono, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if sampleRate != 8000 {
		t.Errorf("expected sample rate 8000, got %d", sampleRate)
	}
	if len(mono) != len(left) {
		t.Fatalf("expected %d frames, got %d", len(left), len(mono))
	}

	want := []float64{16384.0 / 32768, 0, 0}
	for i, v := range want {
		if math.Abs(mono[i]-v) > 1e-6 {
			t.Errorf("frame %d: got %v, want %v", i, mono[i], v)
		}
	}
}
