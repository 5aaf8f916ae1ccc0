package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/agentsync/internal/diff"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/sync"
	"github.com/conn-castle/agentsync/internal/warnings"
)

func newDiffCmd(opts *globalOptions) *cobra.Command {
	var limits diff.Options

	cmd := &cobra.Command{
		Use:   messages.CLIDiffUse,
		Short: messages.CLIDiffShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			result, err := s.buildPlan()
			if err != nil {
				return err
			}
			previews := sync.Preview(result.Operations, limits)

			out := cmd.OutOrStdout()
			changed := 0
			for _, preview := range previews {
				if !preview.Changed() {
					continue
				}
				changed++
				if preview.Mode == diff.ModeUnsupported {
					_, _ = fmt.Fprintf(out, messages.CLIDiffBinaryFmt, preview.Path)
					continue
				}
				_, _ = fmt.Fprint(out, colorizeDiff(preview.Body))
			}
			if changed == 0 {
				_, _ = fmt.Fprintln(out, messages.CLIDiffNoChanges)
			}

			collected := append([]warnings.Warning(nil), result.Warnings...)
			collected = append(collected, warnings.FromDiff(previews)...)
			printWarnings(cmd.ErrOrStderr(), collected, noiseMode(result))
			return nil
		},
	}

	cmd.Flags().IntVar(&limits.MaxLines, "max-lines", 0, messages.CLIFlagMaxLines)
	cmd.Flags().IntVar(&limits.MaxBytes, "max-bytes", 0, messages.CLIFlagMaxBytes)
	return cmd
}
