package series

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Add returns a+b position by position.
func Add(name string, a, b *Series) (*Series, error) {
	return combine(name, a, b, floats.AddTo)
}

// Sub returns a-b position by position.
func Sub(name string, a, b *Series) (*Series, error) {
	return combine(name, a, b, floats.SubTo)
}

// Mul returns a*b position by position.
func Mul(name string, a, b *Series) (*Series, error) {
	return combine(name, a, b, floats.MulTo)
}

// Div returns a/b position by position. Positions where b is zero are
// undefined.
func Div(name string, a, b *Series) (*Series, error) {
	return combine(name, a, b, floats.DivTo)
}

// Scale multiplies every defined value by c.
func Scale(name string, s *Series, c float64) *Series {
	vals := s.Values()
	floats.Scale(c, vals)
	return &Series{name: name, index: s.index, values: vals}
}

// AddConst adds c to every defined value.
func AddConst(name string, s *Series, c float64) *Series {
	vals := s.Values()
	floats.AddConst(c, vals)
	return &Series{name: name, index: s.index, values: vals}
}

func combine(name string, a, b *Series, op func(dst, s, t []float64) []float64) (*Series, error) {
	if !a.AlignedWith(b) {
		return nil, errors.Wrapf(ErrMisaligned, "%s: %s(%d) vs %s(%d)", name, a.name, a.Len(), b.name, b.Len())
	}
	vals := make([]float64, a.Len())
	op(vals, a.values, b.values)
	for i, v := range vals {
		if math.IsInf(v, 0) {
			vals[i] = Undefined()
		}
	}
	return &Series{name: name, index: a.index, values: vals}, nil
}
