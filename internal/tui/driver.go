package tui

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("tui: aborted")

const acknowledgeOption = "OK"

// InputConfig configures a basic text input prompt.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// ConfirmConfig configures a yes/no style prompt.
type ConfirmConfig struct {
	Message string
	Default bool
}

// PromptDriver abstracts the terminal so the session loop can be tested
// without a real TTY.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	// Acknowledge shows message and waits for the user to dismiss it.
	Acknowledge(ctx context.Context, message string) error
}

type surveyDriver struct {
	opts []survey.AskOpt
}

// NewSurveyDriver returns a PromptDriver backed by survey prompts on the
// process terminal.
func NewSurveyDriver(opts ...survey.AskOpt) PromptDriver {
	return &surveyDriver{opts: opts}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Acknowledge(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var out string
	prompt := &survey.Select{
		Message: message,
		Options: []string{acknowledgeOption},
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return translateSurveyErr(err)
	}
	return nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
