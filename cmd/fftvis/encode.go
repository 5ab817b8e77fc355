package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/austinkregel/fftvis/internal/audiosrc"
	"github.com/austinkregel/fftvis/internal/fftvis"
)

func resolveProfile(name string, maskSet, fpsSet, quantSet bool, mask uint16, fps, quantize int) (fftvis.EncodeProfile, error) {
	profile := fftvis.DefaultProfile()

	if name != "" && name != "default" {
		mgr := fftvis.NewProfileManager(profilesPath())
		if err := mgr.Load(); err != nil {
			return profile, err
		}
		p, ok := mgr.Get(name)
		if !ok {
			return profile, fmt.Errorf("unknown profile %q", name)
		}
		profile = p
	}

	if maskSet {
		profile.CompressionMask = fftvis.CompressionMask(mask)
	}
	if fpsSet {
		profile.FPS = fps
	}
	if quantSet {
		if quantize == 8 {
			profile.QuantizeLevel = fftvis.Quantize8
		} else {
			profile.QuantizeLevel = fftvis.Quantize16
		}
	}
	return profile, nil
}

func newEncodeCommand(ctx context.Context) *cobra.Command {
	var (
		audioPath   string
		outPath     string
		profileName string
		mask        uint16
		quantize    int
		fps         int
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode an audio file into a .fvz spectrogram",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile(profileName,
				cmd.Flags().Changed("mask"), cmd.Flags().Changed("fps"), cmd.Flags().Changed("quantize"),
				mask, fps, quantize)
			if err != nil {
				return err
			}

			sampleRate, mono, err := audiosrc.Load(ctx, audioPath, 44100)
			if err != nil {
				return fmt.Errorf("loading audio: %w", err)
			}

			enc := fftvis.NewEncoder(profile)
			if err := enc.LoadAudio(sampleRate, mono); err != nil {
				return err
			}

			err = enc.GenerateFrames(ctx, func(done, total int) {
				fmt.Fprintf(cmd.OutOrStdout(), "\rencoding frame %d/%d", done, total)
			})
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if err := enc.SaveToFile(outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "input audio file (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "output .fvz path (required)")
	cmd.Flags().StringVar(&profileName, "profile", "default", "named encode profile")
	cmd.Flags().Uint16Var(&mask, "mask", uint16(fftvis.MaskZstd|fftvis.MaskQuant|fftvis.MaskDelta), "compression bitmask override")
	cmd.Flags().IntVar(&quantize, "quantize", 16, "quantize level override (8 or 16)")
	cmd.Flags().IntVar(&fps, "fps", 0, "frame rate override")
	cmd.MarkFlagRequired("audio")
	cmd.MarkFlagRequired("out")

	return cmd
}
