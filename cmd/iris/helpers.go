package main

import (
	"log/slog"

	"github.com/shahar-caura/irisform/internal/inference"
	"github.com/shahar-caura/irisform/internal/submission"
	"github.com/spf13/cobra"
)

// addEndpointFlag registers --endpoint, which overrides endpoint.base_url.
func addEndpointFlag(cmd *cobra.Command, endpoint *string) {
	cmd.Flags().StringVar(endpoint, "endpoint", "", "prediction endpoint base URL (overrides config)")
}

// newController wires a submission controller from the loaded config.
func (a *app) newController(endpoint string, r submission.Renderer, logger *slog.Logger) *submission.Controller {
	baseURL := a.cfg.Endpoint.BaseURL
	if endpoint != "" {
		baseURL = endpoint
	}
	logger.Debug("using prediction endpoint", "url", baseURL, "discard_stale", a.cfg.DiscardStale())

	return submission.NewController(
		submission.Machine{DiscardStale: a.cfg.DiscardStale()},
		inference.New(baseURL, logger),
		r,
		logger,
	)
}
