// Command fftvis encodes audio into .fvz spectrogram visualizations and
// decodes them back for inspection.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	root := newRootCommand(ctx)
	if err := root.Execute(); err != nil {
		log.Fatalf("fftvis: %v", err)
	}
}

func newRootCommand(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:     "fftvis",
		Short:   "Encode and inspect .fvz spectrogram visualizations",
		Version: Version,
	}

	root.AddCommand(newEncodeCommand(ctx))
	root.AddCommand(newDecodeCommand(ctx))
	root.AddCommand(newBatchCommand(ctx))
	root.AddCommand(newMenuCommand(ctx))

	return root
}
