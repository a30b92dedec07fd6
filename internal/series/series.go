// Package series holds the date-indexed numeric sequence every indicator
// consumes and produces.
//
// A Series is immutable once built. Positions without a value (warm-up
// prefixes, degenerate divisions) are kept in place and reported as
// undefined; they are never dropped implicitly.
package series

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/pkg/errors"
)

// Series is an ordered sequence of (time, value) pairs with a strictly
// increasing index.
type Series struct {
	name   string
	index  []time.Time
	values []float64
}

// Undefined returns the marker stored at positions that carry no value.
func Undefined() float64 { return math.NaN() }

// IsUndefined reports whether v is the undefined marker.
func IsUndefined(v float64) bool { return math.IsNaN(v) }

// New builds a Series, copying index and values.
func New(name string, index []time.Time, values []float64) (*Series, error) {
	if len(index) != len(values) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%s: index=%d values=%d", name, len(index), len(values))
	}
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return nil, errors.Wrapf(ErrUnsortedIndex, "%s: position %d (%s) does not follow %s",
				name, i, index[i].Format("2006-01-02"), index[i-1].Format("2006-01-02"))
		}
	}
	idx := make([]time.Time, len(index))
	copy(idx, index)
	vals := make([]float64, len(values))
	copy(vals, values)
	return &Series{name: name, index: idx, values: vals}, nil
}

// Derive builds a Series on the index of like. values is copied and must
// have like.Len() entries.
func Derive(like *Series, name string, values []float64) (*Series, error) {
	if len(values) != like.Len() {
		return nil, errors.Wrapf(ErrLengthMismatch, "%s: index=%d values=%d", name, like.Len(), len(values))
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	// the index is never mutated, so derived series share it
	return &Series{name: name, index: like.index, values: vals}, nil
}

func (s *Series) Name() string { return s.name }

func (s *Series) Len() int { return len(s.values) }

// WithName returns the same data under another name.
func (s *Series) WithName(name string) *Series {
	return &Series{name: name, index: s.index, values: s.values}
}

// Time returns the timestamp at position i.
func (s *Series) Time(i int) time.Time { return s.index[i] }

// Index returns a copy of the timestamps.
func (s *Series) Index() []time.Time {
	out := make([]time.Time, len(s.index))
	copy(out, s.index)
	return out
}

// Values returns a copy of the raw values; undefined positions hold NaN.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// At returns the value at position i, or None when it is undefined.
// Negative positions count back from the end, so At(-1) is the last entry.
func (s *Series) At(i int) optional.Option[float64] {
	if i < 0 {
		i += len(s.values)
	}
	if i < 0 || i >= len(s.values) || IsUndefined(s.values[i]) {
		return optional.None[float64]()
	}
	return optional.Some(s.values[i])
}

// Defined reports whether position i carries a value.
func (s *Series) Defined(i int) bool { return s.At(i).IsSome() }

// Last returns the value at the final position.
func (s *Series) Last() optional.Option[float64] { return s.At(-1) }

// FirstDefined returns the position of the first defined value, or -1.
func (s *Series) FirstDefined() int {
	for i, v := range s.values {
		if !IsUndefined(v) {
			return i
		}
	}
	return -1
}

// CountDefined returns the number of defined positions.
func (s *Series) CountDefined() int {
	n := 0
	for _, v := range s.values {
		if !IsUndefined(v) {
			n++
		}
	}
	return n
}

// DropUndefined returns a compacted series holding only defined positions.
func (s *Series) DropUndefined() *Series {
	idx := make([]time.Time, 0, len(s.index))
	vals := make([]float64, 0, len(s.values))
	for i, v := range s.values {
		if IsUndefined(v) {
			continue
		}
		idx = append(idx, s.index[i])
		vals = append(vals, v)
	}
	return &Series{name: s.name, index: idx, values: vals}
}

// Tail returns the last n positions (all of them when n exceeds the length).
func (s *Series) Tail(n int) *Series {
	if n >= len(s.values) {
		return s
	}
	if n < 0 {
		n = 0
	}
	from := len(s.values) - n
	return &Series{name: s.name, index: s.index[from:], values: s.values[from:]}
}

// Between returns the positions whose timestamp lies within [start, end].
// A zero end means no upper bound.
func (s *Series) Between(start, end time.Time) *Series {
	from, to := 0, len(s.index)
	for from < to && s.index[from].Before(start) {
		from++
	}
	if !end.IsZero() {
		for to > from && s.index[to-1].After(end) {
			to--
		}
	}
	return &Series{name: s.name, index: s.index[from:to], values: s.values[from:to]}
}

// AlignedWith reports whether s and o share length and timestamps.
func (s *Series) AlignedWith(o *Series) bool {
	if len(s.index) != len(o.index) {
		return false
	}
	for i := range s.index {
		if !s.index[i].Equal(o.index[i]) {
			return false
		}
	}
	return true
}
