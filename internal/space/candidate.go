package space

import (
	"math"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

// Value is one variable assignment. Numeric kinds use Num; categorical
// values hold the dense code in Code.
type Value struct {
	Kind Kind
	Num  float64
	Code int
}

// Candidate assigns one value to every variable of a Space, in declaration order
type Candidate struct {
	space  *Space
	values []Value
}

// IsZero reports whether c was never produced by a Space
func (c Candidate) IsZero() bool { return c.space == nil }

// Len returns the number of assigned variables
func (c Candidate) Len() int { return len(c.values) }

// Values returns a copy of the assignments in declaration order
func (c Candidate) Values() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

func (c Candidate) lookup(name string, want Kind) (Value, error) {
	if c.space == nil {
		return Value{}, &UnknownVariableError{Name: name}
	}
	i, ok := c.space.byName[name]
	if !ok {
		return Value{}, &UnknownVariableError{Name: name}
	}
	v := c.values[i]
	if want == Continuous && v.Kind == Discrete {
		return v, nil
	}
	if v.Kind != want {
		return Value{}, &KindError{Name: name, Want: want, Got: v.Kind}
	}
	return v, nil
}

// Float returns the value of a numeric variable. Discrete values are widened.
func (c Candidate) Float(name string) (float64, error) {
	v, err := c.lookup(name, Continuous)
	if err != nil {
		return 0, err
	}
	return v.Num, nil
}

// Int returns the value of a discrete variable
func (c Candidate) Int(name string) (int, error) {
	v, err := c.lookup(name, Discrete)
	if err != nil {
		return 0, err
	}
	return int(v.Num), nil
}

// Category returns the label of a categorical variable
func (c Candidate) Category(name string) (string, error) {
	v, err := c.lookup(name, Categorical)
	if err != nil {
		return "", err
	}
	label, err := c.space.vars[c.space.byName[name]].indexer.Label(v.Code)
	if err != nil {
		if ce, ok := err.(*ConsistencyError); ok {
			ce.Variable = name
		}
		return "", err
	}
	return label, nil
}

// Params returns the assignments keyed by variable name: float64 for
// continuous, int for discrete and string for categorical variables.
func (c Candidate) Params() map[string]any {
	out := make(map[string]any, len(c.values))
	if c.space == nil {
		return out
	}
	for i, v := range c.space.vars {
		val := c.values[i]
		switch v.kind {
		case Continuous:
			out[v.name] = val.Num
		case Discrete:
			out[v.name] = int(val.Num)
		case Categorical:
			out[v.name] = v.indexer.labels[val.Code]
		}
	}
	return out
}

// Signature returns the canonical encoding of c: name=value pairs sorted by
// name. Candidates with equal values share a signature whatever their
// construction order.
func (c Candidate) Signature() string {
	if c.space == nil {
		return ""
	}
	var b strings.Builder
	for n, i := range c.space.sorted {
		if n > 0 {
			b.WriteByte(';')
		}
		v := c.space.vars[i]
		val := c.values[i]
		b.WriteString(v.name)
		b.WriteByte('=')
		switch v.kind {
		case Continuous:
			x := utils.RoundSignificant(val.Num, c.space.digits)
			if x == 0 {
				x = 0 // fold -0
			}
			b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		case Discrete:
			b.WriteString(strconv.FormatInt(int64(math.Round(val.Num)), 10))
		case Categorical:
			b.WriteString(strconv.Quote(v.indexer.labels[val.Code]))
		}
	}
	return b.String()
}

// Equal reports whether c and o assign identical values
func (c Candidate) Equal(o Candidate) bool {
	if len(c.values) != len(o.values) {
		return false
	}
	for i := range c.values {
		if c.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

func (c Candidate) String() string {
	return c.Signature()
}
