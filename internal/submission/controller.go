package submission

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shahar-caura/irisform/internal/form"
	"github.com/shahar-caura/irisform/internal/inference"
)

// Predictor classifies a feature vector. *inference.Client implements it.
type Predictor interface {
	Predict(ctx context.Context, vec form.FeatureVector) inference.Outcome
}

// Renderer displays the parts of State the user sees.
type Renderer interface {
	DisplayResult(label string)
	ClearResult()
	ShowError(message string)
	HideError()
}

// Controller owns a form session. It is safe for concurrent use; renderer
// calls are made while holding the session lock, so a Renderer must not call
// back into the Controller.
type Controller struct {
	machine   Machine
	predictor Predictor
	renderer  Renderer
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

// NewController returns a Controller in the Idle phase with empty fields.
func NewController(machine Machine, predictor Predictor, renderer Renderer, logger *slog.Logger) *Controller {
	return &Controller{
		machine:   machine,
		predictor: predictor,
		renderer:  renderer,
		logger:    logger,
		state:     State{Phase: PhaseIdle},
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetField updates one field. Unknown names are rejected.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.state.Fields.Set(name, value); err != nil {
		return err
	}
	c.dispatch(FieldChanged{Name: name, Value: value})
	return nil
}

// Acknowledge hides the visible error, if any.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch(ErrorAcknowledged{})
}

// Submit validates the current fields and, when they are valid, performs one
// prediction round trip. It blocks only on the network call and returns the
// state after this submission's outcome has been applied or discarded.
// Submits may overlap; see Machine.DiscardStale.
func (c *Controller) Submit(ctx context.Context) State {
	c.mu.Lock()
	c.dispatch(SubmitRequested{})
	token := c.state.Token

	vec, err := form.Validate(c.state.Fields)
	if err != nil {
		c.logger.Info("submission rejected", "token", token, "error", err)
		c.dispatchForced(ValidationFailed{Err: asValidationError(err)}, false, true)
		s := c.state
		c.mu.Unlock()
		return s
	}
	c.dispatch(Validated{})
	c.mu.Unlock()

	c.logger.Debug("submitting prediction", "token", token)
	out := c.predictor.Predict(ctx, vec)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine.DiscardStale && token != c.state.Token {
		c.logger.Debug("discarding stale prediction", "token", token, "latest", c.state.Token)
		return c.state
	}
	c.dispatchForced(PredictionReturned{Token: token, Outcome: out}, true, !out.OK())
	if out.OK() {
		c.logger.Info("prediction succeeded", "token", token, "label", out.Prediction.Label)
	} else {
		c.logger.Info("prediction failed", "token", token, "kind", out.Failure.Kind, "error", out.Failure.Err)
	}
	return c.state
}

// dispatch applies ev and renders whatever changed. Callers hold c.mu.
func (c *Controller) dispatch(ev Event) {
	c.dispatchForced(ev, false, false)
}

// dispatchForced applies ev and renders what changed, plus the result or
// error when forced, so that every finished submission is visibly answered
// even if it repeats the previous one.
func (c *Controller) dispatchForced(ev Event, forceResult, forceError bool) {
	prev := c.state
	c.state = c.machine.Apply(prev, ev)
	if c.renderer == nil {
		return
	}

	next := c.state
	if forceResult || next.Result != prev.Result {
		if next.Result.Present {
			c.renderer.DisplayResult(next.Result.Label)
		} else {
			c.renderer.ClearResult()
		}
	}
	if forceError || next.Error != prev.Error {
		if next.Error.Visible {
			c.renderer.ShowError(next.Error.Message)
		} else {
			c.renderer.HideError()
		}
	}
}
