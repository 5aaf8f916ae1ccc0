package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/sync"
)

func newResolveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.CLIResolveUse,
		Short: messages.CLIResolveShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			_, resolved, err := sync.Resolve(sync.RealSystem{}, s.root, s.overrides)
			if err != nil {
				return err
			}
			data, err := resolved.Canonical()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
