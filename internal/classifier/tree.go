package classifier

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/shahar-caura/irisform/internal/form"
	"gopkg.in/yaml.v3"
)

const maxDepth = 64

//go:embed default_model.yaml
var defaultModel []byte

// ErrInvalidModel is wrapped by every model parse and shape error.
var ErrInvalidModel = errors.New("invalid model")

// Node is one node of a decision tree. A leaf sets Class; a split sets
// Feature, Threshold, Left and Right. Values <= Threshold go left.
type Node struct {
	Class     *int     `yaml:"class,omitempty"`
	Feature   *int     `yaml:"feature,omitempty"`
	Threshold *float64 `yaml:"threshold,omitempty"`
	Left      *Node    `yaml:"left,omitempty"`
	Right     *Node    `yaml:"right,omitempty"`
}

// Model is a decision-tree classifier over the four iris features.
type Model struct {
	Name string `yaml:"name"`
	Root *Node  `yaml:"root"`
}

// Default returns the embedded iris model.
func Default() *Model {
	m, err := Parse(defaultModel)
	if err != nil {
		panic(fmt.Sprintf("embedded model: %v", err))
	}
	return m
}

// Load reads and parses a model file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML model and checks its shape.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing: %v", ErrInvalidModel, err)
	}
	if m.Root == nil {
		return nil, fmt.Errorf("%w: root is required", ErrInvalidModel)
	}
	if err := checkNode(m.Root, "root", 0); err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = "unnamed"
	}
	return &m, nil
}

func checkNode(n *Node, path string, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: %s: tree deeper than %d", ErrInvalidModel, path, maxDepth)
	}
	isSplit := n.Feature != nil || n.Threshold != nil || n.Left != nil || n.Right != nil
	switch {
	case n.Class != nil && isSplit:
		return fmt.Errorf("%w: %s: node is both leaf and split", ErrInvalidModel, path)
	case n.Class != nil:
		return nil
	case !isSplit:
		return fmt.Errorf("%w: %s: node has neither class nor split", ErrInvalidModel, path)
	}

	var errs []error
	if n.Feature == nil {
		errs = append(errs, fmt.Errorf("%w: %s: feature is required", ErrInvalidModel, path))
	} else if *n.Feature < 0 || *n.Feature >= len(form.Names) {
		errs = append(errs, fmt.Errorf("%w: %s: feature %d out of range [0,%d)", ErrInvalidModel, path, *n.Feature, len(form.Names)))
	}
	if n.Threshold == nil {
		errs = append(errs, fmt.Errorf("%w: %s: threshold is required", ErrInvalidModel, path))
	}
	if n.Left == nil {
		errs = append(errs, fmt.Errorf("%w: %s: left is required", ErrInvalidModel, path))
	} else if err := checkNode(n.Left, path+".left", depth+1); err != nil {
		errs = append(errs, err)
	}
	if n.Right == nil {
		errs = append(errs, fmt.Errorf("%w: %s: right is required", ErrInvalidModel, path))
	} else if err := checkNode(n.Right, path+".right", depth+1); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Predict walks the tree and returns the leaf class index.
func (m *Model) Predict(vec form.FeatureVector) int {
	n := m.Root
	for n.Class == nil {
		if vec[*n.Feature] <= *n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return *n.Class
}
