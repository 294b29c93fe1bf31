package form

import (
	"errors"
	"fmt"
)

// Field names accepted by the form. The order of Names is the order of the
// feature vector sent to the classifier.
const (
	SepalLength = "sepal_length"
	SepalWidth  = "sepal_width"
	PetalLength = "petal_length"
	PetalWidth  = "petal_width"
)

// Names lists the form fields in feature-vector order.
var Names = []string{SepalLength, SepalWidth, PetalLength, PetalWidth}

// labels holds the human-readable prompt text for each field.
var labels = map[string]string{
	SepalLength: "Sepal Length (cm)",
	SepalWidth:  "Sepal Width (cm)",
	PetalLength: "Petal Length (cm)",
	PetalWidth:  "Petal Width (cm)",
}

// ErrUnknownField is returned by Set for a name outside Names.
var ErrUnknownField = errors.New("unknown form field")

// Label returns the display label for a field name, or the name itself.
func Label(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	return name
}

// Values holds the raw text entered for each field. It is a value type;
// Set returns a modified copy and never touches the receiver.
type Values struct {
	SepalLength string
	SepalWidth  string
	PetalLength string
	PetalWidth  string
}

// Set returns a copy of v with the named field replaced.
func (v Values) Set(name, value string) (Values, error) {
	switch name {
	case SepalLength:
		v.SepalLength = value
	case SepalWidth:
		v.SepalWidth = value
	case PetalLength:
		v.PetalLength = value
	case PetalWidth:
		v.PetalWidth = value
	default:
		return v, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return v, nil
}

// Get returns the raw text of the named field.
func (v Values) Get(name string) (string, bool) {
	switch name {
	case SepalLength:
		return v.SepalLength, true
	case SepalWidth:
		return v.SepalWidth, true
	case PetalLength:
		return v.PetalLength, true
	case PetalWidth:
		return v.PetalWidth, true
	}
	return "", false
}

// Ordered returns the raw values in feature-vector order.
func (v Values) Ordered() []string {
	return []string{v.SepalLength, v.SepalWidth, v.PetalLength, v.PetalWidth}
}
