package cli

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/haferml/hafer/pkg/errors"
)

// Prompter asks the user for confirmation.
type Prompter interface {
	Confirm(question string) (bool, error)
	// Wait pauses before a destructive step, giving the user time to abort.
	Wait(d time.Duration, what string)
}

// TerminalPrompter prompts with pterm on an interactive terminal.
type TerminalPrompter struct {
	In *os.File
}

// NewTerminalPrompter prompts on stdin.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin}
}

func (p *TerminalPrompter) interactive() bool {
	if p.In == nil {
		return false
	}
	fd := p.In.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *TerminalPrompter) Confirm(question string) (bool, error) {
	if !p.interactive() {
		return false, errors.New(errors.ErrAborted, MsgNotInteractive).WithDetail("question", question)
	}
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(question)
}

func (p *TerminalPrompter) Wait(d time.Duration, what string) {
	if d <= 0 {
		return
	}
	spinner, err := pterm.DefaultSpinner.Start(pterm.Sprintf(MsgCountdown, what, d))
	if err != nil {
		time.Sleep(d)
		return
	}
	for left := d; left > 0; left -= time.Second {
		spinner.UpdateText(pterm.Sprintf(MsgCountdown, what, left.Round(time.Second)))
		step := time.Second
		if left < step {
			step = left
		}
		time.Sleep(step)
	}
	_ = spinner.Stop()
}

// yesPrompter confirms everything and never waits.
type yesPrompter struct{}

func (yesPrompter) Confirm(string) (bool, error) { return true, nil }
func (yesPrompter) Wait(time.Duration, string)   {}
