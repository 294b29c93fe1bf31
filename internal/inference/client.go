package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/shahar-caura/irisform/internal/form"
	"github.com/shahar-caura/irisform/internal/species"
)

// PredictPath is the endpoint path appended to the configured base URL.
const PredictPath = "/predict"

const (
	connectionErrorMessage = "connection error"
	fallbackServerMessage  = "Please try again."

	// Largest magnitude a float64 holds as an exact integer.
	maxClassIndex = 1 << 53
)

// ErrMalformedResponse is wrapped into transport failures whose body could
// not be interpreted as a prediction.
var ErrMalformedResponse = errors.New("malformed prediction response")

// Doer sends an HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request is the JSON body sent to the prediction endpoint.
type Request struct {
	FeatureArray []float64 `json:"feature_array"`
}

// Response is the JSON body returned by the prediction endpoint. Prediction
// is set on success, Error on failure.
type Response struct {
	Prediction []float64 `json:"prediction,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Client calls a remote classification endpoint.
type Client struct {
	baseURL string
	doer    Doer
	logger  *slog.Logger
}

// New returns a Client for baseURL using a plain http.Client. No timeout is
// set; failures are detected only at the transport level.
func New(baseURL string, logger *slog.Logger) *Client {
	return NewWithDoer(baseURL, &http.Client{}, logger)
}

// NewWithDoer returns a Client that sends requests through doer.
func NewWithDoer(baseURL string, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
		logger:  logger,
	}
}

// Predict performs a single round trip and returns its outcome. It never
// returns an error; every failure is folded into a Failure outcome.
func (c *Client) Predict(ctx context.Context, vec form.FeatureVector) Outcome {
	payload, err := json.Marshal(Request{FeatureArray: vec.Slice()})
	if err != nil {
		return c.transportFailure(fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PredictPath, bytes.NewReader(payload))
	if err != nil {
		return c.transportFailure(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending prediction request", "url", req.URL.String(), "features", vec.Slice())

	resp, err := c.doer.Do(req)
	if err != nil {
		return c.transportFailure(fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportFailure(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.serverFailure(resp.StatusCode, body)
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return c.transportFailure(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	if len(decoded.Prediction) == 0 {
		return c.transportFailure(fmt.Errorf("%w: empty prediction array", ErrMalformedResponse))
	}

	first := decoded.Prediction[0]
	if first != math.Trunc(first) || math.Abs(first) > maxClassIndex {
		return c.transportFailure(fmt.Errorf("%w: non-integral class index %v", ErrMalformedResponse, first))
	}

	idx := int(first)
	c.logger.Debug("prediction received", "class_index", idx)
	return Success(idx, species.Label(idx))
}

func (c *Client) transportFailure(err error) Outcome {
	c.logger.Warn("prediction request failed", "error", err)
	return Failure(TransportFailure, connectionErrorMessage, err)
}

func (c *Client) serverFailure(status int, body []byte) Outcome {
	msg := fallbackServerMessage
	var decoded Response
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != "" {
		msg = decoded.Error
	}
	c.logger.Warn("prediction endpoint returned error", "status", status, "message", msg)
	return Failure(ServerFailure, msg, fmt.Errorf("unexpected status %d: %s", status, msg))
}
