package tui

import (
	"fmt"
	"io"
)

// NoResult is printed when the prediction is cleared.
const NoResult = "no result"

// Renderer prints controller output as plain lines. Errors go to Errors when
// it is set; the interactive session leaves it nil and shows errors through
// PromptDriver.Acknowledge instead.
type Renderer struct {
	Out    io.Writer
	Errors io.Writer
}

func (r *Renderer) DisplayResult(label string) {
	fmt.Fprintf(r.Out, "Prediction: %s\n", label)
}

func (r *Renderer) ClearResult() {
	fmt.Fprintf(r.Out, "Prediction: %s\n", NoResult)
}

func (r *Renderer) ShowError(message string) {
	if r.Errors != nil {
		fmt.Fprintf(r.Errors, "Error: %s\n", message)
	}
}

// HideError is a no-op; printed lines cannot be withdrawn.
func (r *Renderer) HideError() {}
