package space

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/GoSim-25-26J-441/teso/pkg/config"
	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

// Space is an ordered set of decision variables
type Space struct {
	vars   []*Variable
	byName map[string]int
	sorted []int
	digits int
}

// New creates a space from vars, rejecting duplicate names
func New(vars ...*Variable) (*Space, error) {
	s := &Space{byName: make(map[string]int, len(vars))}
	for _, v := range vars {
		if err := s.Add(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FromSpecs builds a space from config declarations
func FromSpecs(specs []config.VariableSpec) (*Space, error) {
	s := &Space{byName: make(map[string]int, len(specs))}
	for _, spec := range specs {
		v, err := FromSpec(spec)
		if err != nil {
			return nil, err
		}
		if err := s.Add(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a variable
func (s *Space) Add(v *Variable) error {
	if v == nil {
		return config.Errorf("variables", "nil variable")
	}
	if _, dup := s.byName[v.name]; dup {
		return config.Errorf(v.name, "duplicate variable name")
	}
	s.byName[v.name] = len(s.vars)
	s.vars = append(s.vars, v)

	s.sorted = append(s.sorted, len(s.vars)-1)
	sort.Slice(s.sorted, func(i, j int) bool {
		return s.vars[s.sorted[i]].name < s.vars[s.sorted[j]].name
	})
	return nil
}

// SetSignatureDigits rounds continuous values to d significant digits in
// signatures. Zero keeps exact values.
func (s *Space) SetSignatureDigits(d int) {
	s.digits = d
}

// Len returns the number of variables
func (s *Space) Len() int { return len(s.vars) }

// Variables returns the variables in declaration order
func (s *Space) Variables() []*Variable {
	out := make([]*Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// Variable returns the variable called name
func (s *Space) Variable(name string) (*Variable, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.vars[i], true
}

// Candidate builds a candidate from explicit values. Numeric values may be
// any Go number type; categorical values must be labels.
func (s *Space) Candidate(params map[string]any) (Candidate, error) {
	if len(params) != len(s.vars) {
		return Candidate{}, config.Errorf("params", "expected %d values, got %d", len(s.vars), len(params))
	}
	values := make([]Value, len(s.vars))
	for i, v := range s.vars {
		raw, ok := params[v.name]
		if !ok {
			return Candidate{}, config.Errorf(v.name, "missing value")
		}
		val, err := v.valueOf(raw)
		if err != nil {
			return Candidate{}, err
		}
		values[i] = val
	}
	return Candidate{space: s, values: values}, nil
}

func (v *Variable) valueOf(raw any) (Value, error) {
	if v.kind == Categorical {
		label, ok := raw.(string)
		if !ok {
			return Value{}, config.Errorf(v.name, "expected a label, got %T", raw)
		}
		code, ok := v.indexer.Code(label)
		if !ok {
			return Value{}, config.Errorf(v.name, "label %q not declared", label)
		}
		return Value{Kind: Categorical, Code: code}, nil
	}

	var x float64
	switch n := raw.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int64:
		x = float64(n)
	default:
		return Value{}, config.Errorf(v.name, "expected a number, got %T", raw)
	}
	if x < v.low || x > v.high || math.IsNaN(x) {
		return Value{}, config.Errorf(v.name, "value %g outside [%g, %g]", x, v.low, v.high)
	}
	if v.kind == Discrete {
		if x != math.Trunc(x) {
			return Value{}, config.Errorf(v.name, "value %g is not an integer", x)
		}
	}
	return Value{Kind: v.kind, Num: x}, nil
}

// Sample draws a candidate uniformly over every domain
func (s *Space) Sample(rng *utils.RandSource) Candidate {
	values := make([]Value, len(s.vars))
	for i, v := range s.vars {
		values[i] = sample(v, rng)
	}
	return Candidate{space: s, values: values}
}

// Perturb draws a candidate around ref with spread proportional to noise
func (s *Space) Perturb(ref Candidate, noise float64, rng *utils.RandSource) (Candidate, error) {
	if ref.space != s {
		return Candidate{}, fmt.Errorf("reference candidate belongs to another space")
	}
	values := make([]Value, len(s.vars))
	for i, v := range s.vars {
		val, err := perturb(v, ref.values[i], noise, rng)
		if err != nil {
			return Candidate{}, err
		}
		values[i] = val
	}
	return Candidate{space: s, values: values}, nil
}

func sample(v *Variable, rng *utils.RandSource) Value {
	switch v.kind {
	case Categorical:
		return Value{Kind: Categorical, Code: rng.IntN(v.indexer.Len())}
	case Discrete:
		if !v.log {
			lo, hi := discreteBounds(v)
			return Value{Kind: Discrete, Num: float64(lo + rng.IntN(hi-lo+1))}
		}
	}

	lo, hi := v.low, v.high
	if v.log {
		lo, hi = math.Log(lo), math.Log(hi)
	}
	x := distuv.Uniform{Min: lo, Max: hi, Src: rng}.Rand()
	return numeric(v, x)
}

// perturb moves one value around its reference. Continuous and discrete
// values follow a clipped normal step; categorical codes switch with
// probability min(1, noise) by a non-zero step that wraps modulo the label count.
func perturb(v *Variable, ref Value, noise float64, rng *utils.RandSource) (Value, error) {
	switch v.kind {
	case Continuous, Discrete:
		x, lo, hi := ref.Num, v.low, v.high
		if v.log {
			x, lo, hi = math.Log(x), math.Log(lo), math.Log(hi)
		}
		x = distuv.Normal{Mu: x, Sigma: noise * (hi - lo), Src: rng}.Rand()
		return numeric(v, utils.ClampFloat64(x, lo, hi)), nil

	case Categorical:
		k := v.indexer.Len()
		if ref.Code < 0 || ref.Code >= k {
			return Value{}, &ConsistencyError{Variable: v.name, Code: ref.Code, Reason: fmt.Sprintf("code outside [0, %d)", k)}
		}
		if !rng.BernoulliBool(math.Min(1, noise)) {
			return ref, nil
		}
		span := k - 1
		jump := math.Min(math.Abs(rng.NormFloat64(0, 1))*noise*float64(span), float64(span))
		step := 1 + int(jump)%span
		if rng.BernoulliBool(0.5) {
			step = -step
		}
		code := ((ref.Code+step)%k + k) % k
		return Value{Kind: Categorical, Code: code}, nil
	}
	return Value{}, &ConsistencyError{Variable: v.name, Reason: fmt.Sprintf("unknown kind %s", v.kind)}
}

// numeric maps a draw in search space back onto the variable's domain
func numeric(v *Variable, x float64) Value {
	if v.log {
		x = math.Exp(x)
	}
	x = utils.ClampFloat64(x, v.low, v.high)
	if v.kind == Discrete {
		lo, hi := discreteBounds(v)
		x = float64(utils.Clamp(int(math.Round(x)), lo, hi))
	}
	return Value{Kind: v.kind, Num: x}
}

func discreteBounds(v *Variable) (int, int) {
	return int(math.Ceil(v.low)), int(math.Floor(v.high))
}
