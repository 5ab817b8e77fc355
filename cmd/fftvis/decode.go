package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/austinkregel/fftvis/internal/fftvis"
	"github.com/austinkregel/fftvis/internal/render"
)

func newDecodeCommand(ctx context.Context) *cobra.Command {
	var frameIdx int
	var atMs int64

	cmd := &cobra.Command{
		Use:   "decode [file.fvz]",
		Short: "Decode a .fvz file and print its header, or render one frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			header, frames, err := fftvis.ReadFile(data, fftvis.ZstdDecompress)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fftResolution: %d\n", header.FFTResolution)
			fmt.Fprintf(out, "numBands:      %d\n", header.NumBands)
			fmt.Fprintf(out, "frameRate:     %d\n", header.FrameRate)
			fmt.Fprintf(out, "totalFrames:   %d\n", header.TotalFrames)
			fmt.Fprintf(out, "maxAmplitude:  %f\n", header.MaxAmplitude)
			fmt.Fprintf(out, "compression:   %03b\n", header.CompressionType)

			fs := fftvis.NewFrameSet(header, frames)

			var frame []float64
			switch {
			case cmd.Flags().Changed("at-ms"):
				frame = fs.FrameAtMs(float64(atMs))
			case cmd.Flags().Changed("frame"):
				if frameIdx < 0 || frameIdx >= len(frames) {
					return fmt.Errorf("frame %d out of range [0,%d)", frameIdx, len(frames))
				}
				frame = frames[frameIdx]
			default:
				return nil
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, render.Bars(frame, render.Options{}))
			return nil
		},
	}

	cmd.Flags().IntVar(&frameIdx, "frame", 0, "render this frame index")
	cmd.Flags().Int64Var(&atMs, "at-ms", 0, "render the frame nearest this time, in milliseconds")

	return cmd
}
