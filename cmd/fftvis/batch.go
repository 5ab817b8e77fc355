package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/austinkregel/fftvis/internal/batch"
	"github.com/austinkregel/fftvis/internal/fftvis"
)

func newBatchCommand(ctx context.Context) *cobra.Command {
	var (
		dir         string
		outDir      string
		profileName string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Scan a directory and encode every audio file to .fvz",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile(profileName, false, false, false, 0, 0, 0)
			if err != nil {
				return err
			}

			lib := fftvis.NewLibrary(libraryPath())
			if err := lib.Load(); err != nil {
				return err
			}

			enc := batch.NewEncoder(batch.Config{
				Profile:    profile,
				SourceRate: 44100,
				OutDir:     outDir,
				Library:    lib,
				OnResult: func(r batch.ItemResult) {
					switch r.Status {
					case batch.StatusEncoded:
						fmt.Fprintf(cmd.OutOrStdout(), "encoded  %s -> %s\n", r.SourcePath, r.OutputPath)
					case batch.StatusSkippedUnchanged:
						fmt.Fprintf(cmd.OutOrStdout(), "skipped  %s (unchanged)\n", r.SourcePath)
					case batch.StatusFailed:
						fmt.Fprintf(cmd.OutOrStdout(), "failed   %s: %v\n", r.SourcePath, r.Err)
					}
				},
			})

			if err := enc.Run(ctx, dir, nil); err != nil {
				return err
			}
			return lib.Save()
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "library directory to scan (required)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for .fvz files (required)")
	cmd.Flags().StringVar(&profileName, "profile", "default", "named encode profile")
	cmd.MarkFlagRequired("dir")
	cmd.MarkFlagRequired("out")

	return cmd
}
