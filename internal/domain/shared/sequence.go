package shared

import (
	"context"
	"time"
)

// NumberGenerator issues human-readable document numbers of the form
// PREFIX-YYYYMMDD-NNNN, with the counter scoped to the prefix and day.
// Implementations must be safe for concurrent use and must never surface
// a uniqueness violation to the caller.
type NumberGenerator interface {
	Next(ctx context.Context, prefix string, t time.Time) (string, error)
}

// Document number prefixes
const (
	ReturnNumberPrefix = "RET"
	RefundNumberPrefix = "REF"
)
