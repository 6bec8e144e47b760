package state

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource hands out stroke identifiers.
type IDSource func() string

// NewStrokeID is the default IDSource.
func NewStrokeID() string {
	return uuid.NewString()
}

// SequentialIDs returns an IDSource producing prefix-1, prefix-2, ...
// It keeps draw lists stable in tests and golden files.
func SequentialIDs(prefix string) IDSource {
	var n uint64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddUint64(&n, 1))
	}
}
