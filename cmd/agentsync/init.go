package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/agentsync/internal/apply"
	"github.com/conn-castle/agentsync/internal/install"
	"github.com/conn-castle/agentsync/internal/logging"
	"github.com/conn-castle/agentsync/internal/messages"
)

var installRun = install.Run

func newInitCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   messages.CLIInitUse,
		Short: messages.CLIInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			report, err := installRun(s.root, install.Options{
				Overwrite: force,
				System:    apply.RealSystem{},
				Now:       now,
				Log:       logging.Component(s.log, "install"),
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printReport(out, report)
			if len(report.Failed()) > 0 {
				return &SilentExitError{Code: 1}
			}
			_, _ = fmt.Fprintf(out, messages.CLIInitDoneFmt, s.root)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, messages.CLIFlagForce)
	return cmd
}
