package ir

import "fmt"

// InfiniteUpper is the sentinel used as Bounds.Upper when the upper bound is
// unconstrained (the grammar's `:infinity`).
const InfiniteUpper = -1

// Bounds is an inter-method or delay temporal bound, `{lower, upper}`, where
// upper may be the InfiniteUpper sentinel.
type Bounds struct {
	Lower int64
	Upper int64 // InfiniteUpper means unconstrained
}

// DefaultBounds is the canonical [0, :infinity] bound used when a method or
// delay omits explicit bounds.
func DefaultBounds() Bounds { return Bounds{Lower: 0, Upper: InfiniteUpper} }

// ZeroBounds is the canonical [0, 0] bound used by the slack/optional
// macro-expansion's zero-delay.
func ZeroBounds() Bounds { return Bounds{Lower: 0, Upper: 0} }

func (b Bounds) String() string {
	if b.Upper == InfiniteUpper {
		return fmt.Sprintf("[%d, infinity]", b.Lower)
	}
	return fmt.Sprintf("[%d, %d]", b.Lower, b.Upper)
}

func (b Bounds) Infinite() bool { return b.Upper == InfiniteUpper }
