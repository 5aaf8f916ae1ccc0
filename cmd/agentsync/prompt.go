package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/conn-castle/agentsync/internal/messages"
)

// isTerminal reports whether stdin and stdout are both interactive terminals.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// confirmUserScope asks whether the listed home-directory paths may be written.
// Aborting the prompt counts as a refusal.
var confirmUserScope = func(paths []string) (bool, error) {
	allow := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf(messages.CLIConsentPromptFmt, len(paths))).
			Description(strings.Join(paths, "\n")).
			Affirmative("Allow").
			Negative("Refuse").
			Value(&allow),
	))
	form.WithProgramOptions(tea.WithOutput(os.Stderr))

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.CLIConsentFailedFmt, err)
	}
	return allow, nil
}
