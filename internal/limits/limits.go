// Package limits implements the per-instrument position clamp applied
// to a model's desired quotes before they reach the GridOrder
// reconciler. Grounded on original_source/src/roq/shared/limits.h.
package limits

import "quotecore/internal/common"

// Range is an inclusive [Min, Max] bound on position.
type Range struct {
	Min common.Volume
	Max common.Volume
}

// Contains reports whether qty lies within the range, epsilon-inclusive.
func (r Range) Contains(qty common.Volume) bool {
	return common.Compare(qty, r.Min) >= 0 && common.Compare(qty, r.Max) <= 0
}

// PositionLimit clamps bid/ask quantities against the room left between
// the current position and a configured Range.
//
// The original's validate() clamps bid.quantity against
// (limit_.max - position) and then reuses that same bid-derived
// headroom for ask.quantity — a copy-paste bug, noted as an Open
// Question in the spec. SPEC_FULL fixes it: ask is clamped
// independently against (position - limit_.min), since a sell reduces
// position toward the configured minimum.
type PositionLimit struct {
	Limit Range
}

// ValidateBid clamps a prospective buy quantity so that position+qty
// never exceeds Limit.Max. The result is never negative: with no room
// at all (position already at or above Max) it is zero.
func (p PositionLimit) ValidateBid(position, qty common.Volume) common.Volume {
	headroom := p.Limit.Max - position
	if common.Compare(qty, headroom) > 0 {
		return maxZero(headroom)
	}
	return qty
}

// ValidateAsk clamps a prospective sell quantity so that
// position-qty never drops below Limit.Min.
func (p PositionLimit) ValidateAsk(position, qty common.Volume) common.Volume {
	headroom := position - p.Limit.Min
	if common.Compare(qty, headroom) > 0 {
		return maxZero(headroom)
	}
	return qty
}

func maxZero(v common.Volume) common.Volume {
	if common.Compare(v, 0) < 0 {
		return 0
	}
	return v
}
