package inference

// FailureKind distinguishes how a prediction attempt failed.
type FailureKind string

const (
	// TransportFailure covers an unreachable server and responses that
	// cannot be interpreted.
	TransportFailure FailureKind = "transport"
	// ServerFailure is a non-2xx response from the endpoint.
	ServerFailure FailureKind = "server"
)

// Outcome is the result of one prediction attempt. Exactly one of
// Prediction and Failure is non-nil.
type Outcome struct {
	Prediction *Prediction
	Failure    *FailureDetail
}

// Prediction is a successful classification.
type Prediction struct {
	ClassIndex int
	Label      string
}

// FailureDetail describes a failed classification. Message is the
// user-facing text; Err keeps the underlying cause for logs.
type FailureDetail struct {
	Kind    FailureKind
	Message string
	Err     error
}

// Success builds a successful Outcome.
func Success(classIndex int, label string) Outcome {
	return Outcome{Prediction: &Prediction{ClassIndex: classIndex, Label: label}}
}

// Failure builds a failed Outcome.
func Failure(kind FailureKind, message string, err error) Outcome {
	return Outcome{Failure: &FailureDetail{Kind: kind, Message: message, Err: err}}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.Prediction != nil }
