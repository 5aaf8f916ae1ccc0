package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/conn-castle/agentsync/internal/apply"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/sync"
	"github.com/conn-castle/agentsync/internal/warnings"
)

var now = time.Now

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var allowUser bool
	var noPrompt bool

	cmd := &cobra.Command{
		Use:   messages.CLIApplyUse,
		Short: messages.CLIApplyShort,
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
			consent, err := userConsent(result.Operations, allowUser, noPrompt)
			if err != nil {
				return err
			}

			report, err := sync.Apply(result.Operations, apply.Options{
				BackupDir:   result.Paths.BackupsDir,
				ConsentUser: consent,
				Now:         now,
				System:      apply.RealSystem{},
				Log:         s.log,
			})
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			collected := append([]warnings.Warning(nil), result.Warnings...)
			collected = append(collected, warnings.FromReport(report)...)
			printWarnings(cmd.ErrOrStderr(), collected, noiseMode(result))

			if len(report.Failed()) > 0 {
				return &SilentExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowUser, "allow-user", false, messages.CLIFlagAllowUser)
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, messages.CLIFlagNoPrompt)
	return cmd
}

// userConsent decides whether user-scope operations may run. --allow-user grants consent outright;
// otherwise an interactive terminal is asked, and everything else refuses.
func userConsent(ops []plan.PlannedOperation, allowUser bool, noPrompt bool) (bool, error) {
	if allowUser {
		return true, nil
	}
	var paths []string
	for _, op := range ops {
		if op.ConsentRequired {
			paths = append(paths, op.Location)
		}
	}
	if len(paths) == 0 || noPrompt || !isTerminal() {
		return false, nil
	}
	return confirmUserScope(paths)
}

func printReport(out io.Writer, report apply.Report) {
	for _, result := range report.Results {
		_, _ = fmt.Fprintf(out, messages.CLIApplyLineFmt, statusLabel(result.Status), result.Path)
		if result.Err != nil {
			_, _ = fmt.Fprintf(out, messages.CLIApplyFailedFmt, result.Err)
		}
	}
	if report.BackupRoot != "" {
		_, _ = fmt.Fprintf(out, messages.CLIApplyBackupFmt, report.BackupRoot)
	}
	_, _ = fmt.Fprintf(out, messages.CLIApplySummaryFmt,
		report.Count(apply.StatusCreated),
		report.Count(apply.StatusUpdated),
		report.Count(apply.StatusUnchanged),
		report.Count(apply.StatusRefused),
		report.Count(apply.StatusFailed),
	)
}
