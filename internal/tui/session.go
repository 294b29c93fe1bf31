package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shahar-caura/irisform/internal/form"
	"github.com/shahar-caura/irisform/internal/submission"
)

// Session runs the interactive form: prompt the four fields, submit, show
// the outcome and repeat until the user stops.
type Session struct {
	ctrl   *submission.Controller
	driver PromptDriver
	logger *slog.Logger
}

// NewSession binds a controller to a prompt driver.
func NewSession(ctrl *submission.Controller, driver PromptDriver, logger *slog.Logger) *Session {
	return &Session{ctrl: ctrl, driver: driver, logger: logger}
}

// Run blocks until the user declines another round or aborts. An abort is
// not an error.
func (s *Session) Run(ctx context.Context) error {
	err := s.loop(ctx)
	if errors.Is(err, ErrAborted) {
		s.logger.Debug("form session aborted")
		return nil
	}
	return err
}

func (s *Session) loop(ctx context.Context) error {
	for {
		if err := s.promptFields(ctx); err != nil {
			return err
		}

		st := s.ctrl.Submit(ctx)
		if st.Error.Visible {
			if err := s.driver.Acknowledge(ctx, st.Error.Message); err != nil {
				return err
			}
			s.ctrl.Acknowledge()
		}

		again, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Classify another flower?", Default: true})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (s *Session) promptFields(ctx context.Context) error {
	current := s.ctrl.State().Fields
	for _, name := range form.Names {
		def, _ := current.Get(name)
		v, err := s.driver.Input(ctx, InputConfig{
			Message: form.Label(name),
			Default: def,
		})
		if err != nil {
			return err
		}
		if err := s.ctrl.SetField(name, v); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}
	return nil
}
