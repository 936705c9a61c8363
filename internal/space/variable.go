package space

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/teso/pkg/config"
	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

// Kind identifies the domain type of a decision variable
type Kind int

const (
	Continuous Kind = iota
	Discrete
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return config.KindContinuous
	case Discrete:
		return config.KindDiscrete
	case Categorical:
		return config.KindCategorical
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a config kind name to a Kind
func ParseKind(s string) (Kind, bool) {
	switch s {
	case config.KindContinuous:
		return Continuous, true
	case config.KindDiscrete:
		return Discrete, true
	case config.KindCategorical:
		return Categorical, true
	}
	return 0, false
}

// Variable describes one decision variable and its domain.
// Numeric variables use the closed interval [Low, High]; categorical
// variables use the labels held by their CategoryIndexer.
type Variable struct {
	name    string
	kind    Kind
	low     float64
	high    float64
	log     bool
	indexer *CategoryIndexer
}

// NewContinuous declares a real-valued variable on [low, high]
func NewContinuous(name string, low, high float64) (*Variable, error) {
	v := &Variable{name: name, kind: Continuous, low: low, high: high}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// NewDiscrete declares an integer-valued variable on [low, high]
func NewDiscrete(name string, low, high int) (*Variable, error) {
	v := &Variable{name: name, kind: Discrete, low: float64(low), high: float64(high)}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// NewCategorical declares a variable taking one of labels
func NewCategorical(name string, labels ...string) (*Variable, error) {
	if name == "" {
		return nil, config.Errorf("name", "variable name is required")
	}
	idx, err := NewCategoryIndexer(labels)
	if err != nil {
		if cfgErr, ok := err.(*config.ConfigurationError); ok {
			cfgErr.Field = name + "." + cfgErr.Field
		}
		return nil, err
	}
	return &Variable{name: name, kind: Categorical, indexer: idx}, nil
}

// FromSpec builds a Variable from its config declaration
func FromSpec(spec config.VariableSpec) (*Variable, error) {
	kind, ok := ParseKind(spec.Kind)
	if !ok {
		return nil, config.Errorf(spec.Name+".kind", "unknown variable kind %q", spec.Kind)
	}

	var (
		v   *Variable
		err error
	)
	switch kind {
	case Continuous:
		v, err = NewContinuous(spec.Name, spec.Low, spec.High)
	case Discrete:
		if spec.Low != math.Trunc(spec.Low) || spec.High != math.Trunc(spec.High) {
			return nil, config.Errorf(spec.Name, "discrete bounds must be integers, got [%g, %g]", spec.Low, spec.High)
		}
		v, err = NewDiscrete(spec.Name, int(spec.Low), int(spec.High))
	case Categorical:
		if spec.Log {
			return nil, config.Errorf(spec.Name+".log", "log scale is not defined for categorical variables")
		}
		return NewCategorical(spec.Name, spec.Categories...)
	}
	if err != nil {
		return nil, err
	}
	if spec.Log {
		return v.WithLog()
	}
	return v, nil
}

// WithLog returns a copy of v that samples and perturbs in log space.
// The lower bound must be positive.
func (v *Variable) WithLog() (*Variable, error) {
	if v.kind == Categorical {
		return nil, config.Errorf(v.name+".log", "log scale is not defined for categorical variables")
	}
	c := *v
	c.log = true
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (v *Variable) validate() error {
	if v.name == "" {
		return config.Errorf("name", "variable name is required")
	}
	if !utils.IsFinite(v.low) || !utils.IsFinite(v.high) {
		return config.Errorf(v.name, "bounds must be finite, got [%g, %g]", v.low, v.high)
	}
	if v.low > v.high {
		return config.Errorf(v.name, "lower bound %g exceeds upper bound %g", v.low, v.high)
	}
	if v.log && v.low <= 0 {
		return config.Errorf(v.name+".log", "log scale requires a positive lower bound, got %g", v.low)
	}
	return nil
}

// Name returns the variable name
func (v *Variable) Name() string { return v.name }

// Kind returns the variable kind
func (v *Variable) Kind() Kind { return v.kind }

// Bounds returns the numeric domain. Categorical variables report the code range.
func (v *Variable) Bounds() (low, high float64) {
	if v.kind == Categorical {
		return 0, float64(v.indexer.Len() - 1)
	}
	return v.low, v.high
}

// Log reports whether the variable is searched in log space
func (v *Variable) Log() bool { return v.log }

// Indexer returns the category indexer, nil for numeric variables
func (v *Variable) Indexer() *CategoryIndexer { return v.indexer }

func (v *Variable) String() string {
	switch v.kind {
	case Categorical:
		return fmt.Sprintf("%s:%s%v", v.name, v.kind, v.indexer.Labels())
	default:
		scale := ""
		if v.log {
			scale = " log"
		}
		return fmt.Sprintf("%s:%s[%g, %g]%s", v.name, v.kind, v.low, v.high, scale)
	}
}
