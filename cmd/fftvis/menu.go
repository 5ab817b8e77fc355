package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newMenuCommand reproduces the original source's console front-end: a
// bare "1-Decode / 2-Encode" prompt, for callers who want an interactive
// session instead of flags.
func newMenuCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Interactive 1-Decode / 2-Encode prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(os.Stdin)

			fmt.Fprintln(out, "1) Decode")
			fmt.Fprintln(out, "2) Encode")
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return nil
			}
			choice := strings.TrimSpace(scanner.Text())

			fmt.Fprint(out, "file path> ")
			if !scanner.Scan() {
				return nil
			}
			path := strings.TrimSpace(scanner.Text())

			switch choice {
			case "1":
				decodeCmd := newDecodeCommand(ctx)
				decodeCmd.SetOut(out)
				decodeCmd.SetArgs([]string{path})
				return decodeCmd.Execute()
			case "2":
				fmt.Fprint(out, "output path> ")
				if !scanner.Scan() {
					return nil
				}
				outPath := strings.TrimSpace(scanner.Text())

				encodeCmd := newEncodeCommand(ctx)
				encodeCmd.SetOut(out)
				encodeCmd.SetArgs([]string{"--audio", path, "--out", outPath})
				return encodeCmd.Execute()
			default:
				return fmt.Errorf("unrecognized choice %q", choice)
			}
		},
	}
	return cmd
}
