package segmenttree

import (
	"github.com/pkg/errors"
)

var (
	ErrEmpty        = errors.New("segment tree requires at least one value")
	ErrOutOfRange   = errors.New("index out of range")
	ErrInvalidOrder = errors.New("low bound greater than high bound")
)
