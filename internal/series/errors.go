package series

import "github.com/pkg/errors"

var (
	ErrEmptySeries    = errors.New("series is empty")
	ErrLengthMismatch = errors.New("index and values differ in length")
	ErrUnsortedIndex  = errors.New("index is not strictly increasing")
	ErrMisaligned     = errors.New("series are not aligned on the same index")
	ErrMissingColumn  = errors.New("dataset column is missing")
)
