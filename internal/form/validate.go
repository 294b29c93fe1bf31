package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FeatureVector is the parsed numeric input to classification, in the order
// sepal length, sepal width, petal length, petal width.
type FeatureVector [4]float64

// Slice returns the vector as a slice for JSON encoding.
func (f FeatureVector) Slice() []float64 {
	return []float64{f[0], f[1], f[2], f[3]}
}

// ValidationKind classifies why a submission was rejected locally.
type ValidationKind string

const (
	MissingField  ValidationKind = "missing_field"
	InvalidNumber ValidationKind = "invalid_number"
)

// ValidationError reports the fields that blocked a submission.
type ValidationError struct {
	Kind   ValidationKind
	Fields []string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
	case InvalidNumber:
		return fmt.Sprintf("fields are not valid numbers: %s", strings.Join(e.Fields, ", "))
	default:
		return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
	}
}

// Validate checks that every field is present and numeric and returns the
// feature vector. Presence is checked for all fields before any parsing, so
// a form with both empty and malformed fields reports MissingField.
func Validate(v Values) (FeatureVector, error) {
	raw := v.Ordered()

	var missing []string
	for i, s := range raw {
		if s == "" {
			missing = append(missing, Names[i])
		}
	}
	if len(missing) > 0 {
		return FeatureVector{}, &ValidationError{Kind: MissingField, Fields: missing}
	}

	var vec FeatureVector
	var invalid []string
	for i, s := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			invalid = append(invalid, Names[i])
			continue
		}
		vec[i] = f
	}
	if len(invalid) > 0 {
		return FeatureVector{}, &ValidationError{Kind: InvalidNumber, Fields: invalid}
	}
	return vec, nil
}
