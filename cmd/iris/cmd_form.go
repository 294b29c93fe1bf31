package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shahar-caura/irisform/internal/tui"
	"github.com/spf13/cobra"
)

// newPromptDriver is replaced in tests.
var newPromptDriver = func() (tui.PromptDriver, error) {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("checking stdin: %w", err)
	}
	if fi.Mode()&os.ModeCharDevice == 0 {
		return nil, fmt.Errorf("iris form requires an interactive terminal; use iris predict instead")
	}
	return tui.NewSurveyDriver(), nil
}

func newFormCmd(a *app, logger *slog.Logger) *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Fill in flower measurements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := newPromptDriver()
			if err != nil {
				return err
			}
			ctrl := a.newController(endpoint, &tui.Renderer{Out: cmd.OutOrStdout()}, logger)
			return tui.NewSession(ctrl, driver, logger).Run(cmd.Context())
		},
	}

	addEndpointFlag(cmd, &endpoint)
	return cmd
}
