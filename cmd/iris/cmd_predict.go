package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/shahar-caura/irisform/internal/form"
	"github.com/shahar-caura/irisform/internal/submission"
	"github.com/shahar-caura/irisform/internal/tui"
	"github.com/spf13/cobra"
)

var errSubmissionFailed = errors.New("submission failed")

func newPredictCmd(a *app, logger *slog.Logger) *cobra.Command {
	var endpoint string
	var values [4]string

	cmd := &cobra.Command{
		Use:     "predict",
		Short:   "Classify one flower from flag values",
		Example: `  iris predict --sepal-length 5.1 --sepal-width 3.5 --petal-length 1.4 --petal-width 0.2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &tui.Renderer{Out: cmd.OutOrStdout(), Errors: cmd.ErrOrStderr()}
			ctrl := a.newController(endpoint, r, logger)

			for i, name := range form.Names {
				if err := ctrl.SetField(name, values[i]); err != nil {
					return err
				}
			}

			st := ctrl.Submit(cmd.Context())
			if st.Phase == submission.PhaseFailed {
				return errSubmissionFailed
			}
			return nil
		},
	}

	for i, name := range form.Names {
		cmd.Flags().StringVar(&values[i], flagName(name), "", form.Label(name))
	}
	addEndpointFlag(cmd, &endpoint)
	return cmd
}

// flagName turns a field name like sepal_length into sepal-length.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}
