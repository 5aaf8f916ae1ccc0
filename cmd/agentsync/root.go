package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/conn-castle/agentsync/internal/logging"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/resolve"
	"github.com/conn-castle/agentsync/internal/root"
	"github.com/conn-castle/agentsync/internal/sync"
)

var (
	getwd     = os.Getwd
	homeDir   = homedir.Dir
	newLogger = logging.WithFile
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	root    string
	tools   []string
	verbose int
	noColor bool
}

// session is the per-invocation state derived from the global flags.
type session struct {
	root      string
	home      string
	log       zerolog.Logger
	closer    io.Closer
	overrides resolve.Overrides
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           messages.CLIRootUse,
		Short:         messages.CLIRootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", "", messages.CLIFlagRoot)
	flags.StringSliceVar(&opts.tools, "tools", nil, messages.CLIFlagTools)
	flags.CountVarP(&opts.verbose, "verbose", "v", messages.CLIFlagVerbose)
	flags.BoolVar(&opts.noColor, "no-color", false, messages.CLIFlagNoColor)

	cmd.AddCommand(
		newInitCmd(opts),
		newResolveCmd(opts),
		newPlanCmd(opts),
		newDiffCmd(opts),
		newApplyCmd(opts),
	)
	return cmd
}

// open resolves the project root, home directory, and logger for cmd.
// The caller must close the session.
func (o *globalOptions) open(cmd *cobra.Command) (*session, error) {
	projectRoot, err := o.resolveRoot()
	if err != nil {
		return nil, err
	}
	home, err := homeDir()
	if err != nil {
		return nil, fmt.Errorf(messages.CLIResolveHomeFmt, err)
	}

	log, closer := newLogger(cmd.ErrOrStderr(), o.verbose)
	s := &session{
		root:   projectRoot,
		home:   home,
		log:    log,
		closer: closer,
	}
	if cmd.Flags().Changed("tools") {
		s.overrides.Tools = append([]string{}, o.tools...)
	}
	log.Debug().Str("root", projectRoot).Str("home", home).Strs("tools", s.overrides.Tools).Msg("session opened")
	return s, nil
}

// resolveRoot returns --root when set, otherwise the nearest .agentsync or .git ancestor of the
// working directory.
func (o *globalOptions) resolveRoot() (string, error) {
	if o.root != "" {
		abs, err := filepath.Abs(o.root)
		if err != nil {
			return "", fmt.Errorf(messages.CLIResolveRootFmt, o.root, err)
		}
		return abs, nil
	}
	cwd, err := getwd()
	if err != nil {
		return "", fmt.Errorf(messages.CLIResolveCwdFmt, err)
	}
	return root.FindRoot(cwd)
}

// buildPlan runs the planning pipeline for the session.
func (s *session) buildPlan() (*sync.Result, error) {
	return sync.BuildPlan(sync.RealSystem{}, s.root, sync.Options{
		Overrides: s.overrides,
		HomeDir:   s.home,
		Log:       s.log,
	})
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
