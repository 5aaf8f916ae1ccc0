package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
)

func newPlanCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   messages.CLIPlanUse,
		Short: messages.CLIPlanShort,
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
			if asJSON {
				data, err := json.MarshalIndent(result.Plan, "", "  ")
				if err != nil {
					return fmt.Errorf(messages.CLIMarshalPlanFmt, err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			printOperations(cmd.OutOrStdout(), result.Operations)
			printWarnings(cmd.ErrOrStderr(), result.Warnings, noiseMode(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, messages.CLIFlagJSON)
	return cmd
}

// printOperations writes one line per planned operation: kind, scope, path, and tags.
func printOperations(out io.Writer, ops []plan.PlannedOperation) {
	if len(ops) == 0 {
		_, _ = fmt.Fprintln(out, messages.CLIPlanEmpty)
		return
	}
	for _, op := range ops {
		tags := ""
		if op.SetExecutable {
			tags += messages.CLIPlanExecTag
		}
		if op.ConsentRequired {
			tags += color.YellowString(messages.CLIPlanConsentTag)
		}
		_, _ = fmt.Fprintf(out, messages.CLIPlanLineFmt, op.Kind, op.Scope, op.Path, tags)
	}
	_, _ = fmt.Fprintf(out, messages.CLIPlanSummaryFmt, len(ops))
}
