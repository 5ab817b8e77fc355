// Package audiosrc supplies the (sample_rate, mono_samples[]) provider the
// codec core treats as an external collaborator: loading compressed audio
// files and handing back mono float64 PCM.
package audiosrc

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
)

// FFmpegSource decodes arbitrary audio files via an external ffmpeg binary,
// the general-purpose fallback for anything the WAV fast path doesn't cover.
type FFmpegSource struct {
	ffmpegPath string
}

// NewFFmpegSource locates the ffmpeg binary in PATH.
func NewFFmpegSource() (*FFmpegSource, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &FFmpegSource{ffmpegPath: path}, nil
}

// Load decodes path to mono float64 PCM resampled to sampleRate.
func (s *FFmpegSource) Load(ctx context.Context, path string, sampleRate int) ([]float64, error) {
	args := []string{
		"-v", "error",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-",
	}

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening ffmpeg stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
			cmd.Wait()
		}
	}()

	var buf bytes.Buffer
	chunk := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, readErr := stdout.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if readErr != nil {
			break
		}
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg exited with error: %w", err)
	}

	raw := buf.Bytes()
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		samples[i] = float64(v) / 32768
	}
	return samples, nil
}
