package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shahar-caura/irisform/internal/form"
	"github.com/shahar-caura/irisform/internal/inference"
	"github.com/shahar-caura/irisform/internal/presenter"
)

// Phase is the controller's position in the submission lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// User-facing messages.
const (
	MsgMissingFields   = "Please fill in all fields."
	MsgConnectionError = "Failed to connect to the server. Ensure the server is running and accessible."
	prefixPrediction   = "Prediction Error: "
)

// Result is the prediction currently on display. The zero value means no
// result.
type Result struct {
	Present    bool
	ClassIndex int
	Label      string
}

// State is an immutable snapshot of a form session.
type State struct {
	Phase  Phase
	Fields form.Values
	Result Result
	Error  presenter.Error

	// Token is the number of the most recent submission. Outcomes carrying
	// an older token are stale.
	Token uint64
}

// Event drives a transition.
type Event interface{ isEvent() }

// FieldChanged records new text for one field.
type FieldChanged struct {
	Name  string
	Value string
}

// SubmitRequested starts a new submission and issues its token.
type SubmitRequested struct{}

// ValidationFailed ends the current submission before any request is sent.
type ValidationFailed struct {
	Err *form.ValidationError
}

// Validated moves the current submission on to the network call.
type Validated struct{}

// PredictionReturned delivers the outcome of the submission numbered Token.
type PredictionReturned struct {
	Token   uint64
	Outcome inference.Outcome
}

// ErrorAcknowledged dismisses the visible error.
type ErrorAcknowledged struct{}

func (FieldChanged) isEvent()       {}
func (SubmitRequested) isEvent()    {}
func (ValidationFailed) isEvent()   {}
func (Validated) isEvent()          {}
func (PredictionReturned) isEvent() {}
func (ErrorAcknowledged) isEvent()  {}

// Machine is the pure transition function of the submission lifecycle.
type Machine struct {
	// DiscardStale drops outcomes whose token is not the latest issued.
	// When false, outcomes are applied in arrival order.
	DiscardStale bool
}

// Apply returns the state that follows s after ev. It never mutates s.
func (m Machine) Apply(s State, ev Event) State {
	switch ev := ev.(type) {
	case FieldChanged:
		fields, err := s.Fields.Set(ev.Name, ev.Value)
		if err != nil {
			return s
		}
		s.Fields = fields

	case SubmitRequested:
		s.Phase = PhaseValidating
		s.Token++

	case ValidationFailed:
		if s.Phase != PhaseValidating {
			return s
		}
		s.Phase = PhaseFailed
		s.Error = s.Error.Show(ValidationMessage(ev.Err))

	case Validated:
		if s.Phase != PhaseValidating {
			return s
		}
		s.Phase = PhaseSubmitting

	case PredictionReturned:
		if m.DiscardStale && ev.Token != s.Token {
			return s
		}
		if ev.Outcome.OK() {
			p := ev.Outcome.Prediction
			s.Phase = PhaseSucceeded
			s.Result = Result{Present: true, ClassIndex: p.ClassIndex, Label: p.Label}
			return s
		}
		s.Phase = PhaseFailed
		s.Result = Result{}
		s.Error = s.Error.Show(FailureMessage(ev.Outcome.Failure))

	case ErrorAcknowledged:
		s.Error = s.Error.Acknowledge()
	}
	return s
}

// ValidationMessage renders a validation error for the user.
func ValidationMessage(err *form.ValidationError) string {
	if err == nil || err.Kind == form.MissingField {
		return MsgMissingFields
	}
	labels := make([]string, len(err.Fields))
	for i, f := range err.Fields {
		labels[i] = form.Label(f)
	}
	if len(labels) == 1 {
		return fmt.Sprintf("Please enter a valid number for %s.", labels[0])
	}
	return fmt.Sprintf("Please enter valid numbers for %s.", strings.Join(labels, ", "))
}

// FailureMessage renders a failed prediction for the user.
func FailureMessage(f *inference.FailureDetail) string {
	if f == nil || f.Kind == inference.TransportFailure {
		return MsgConnectionError
	}
	return prefixPrediction + f.Message
}

// asValidationError extracts the typed validation error, wrapping unknown
// errors as a missing-field failure.
func asValidationError(err error) *form.ValidationError {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &form.ValidationError{Kind: form.MissingField}
}
