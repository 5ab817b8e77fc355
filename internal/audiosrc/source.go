package audiosrc

import (
	"context"
	"path/filepath"
	"strings"
)

// Load resolves path to mono float64 PCM. WAV files are read directly via
// the dependency-light decoder at their native sample rate; everything
// else goes through ffmpeg, resampled to sampleRate.
func Load(ctx context.Context, path string, sampleRate int) (outSampleRate int, mono []float64, err error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return LoadWAV(path)
	}

	src, err := NewFFmpegSource()
	if err != nil {
		return 0, nil, err
	}
	mono, err = src.Load(ctx, path, sampleRate)
	if err != nil {
		return 0, nil, err
	}
	return sampleRate, mono, nil
}
