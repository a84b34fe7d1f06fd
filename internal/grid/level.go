// Package grid implements the GridOrder reconciliation engine: the
// Levels book of price rungs and the two-pass diff that turns desired
// quotes into the minimum set of create/modify/cancel transactions.
package grid

import "quotecore/internal/common"

// Level is one price rung of our own quoting grid, carrying the four
// volume counters the reconciler diffs against each other.
type Level struct {
	Price            common.Price
	DesiredVolume    common.Volume // what the model wants live at this price
	WorkingVolume    common.Volume // quantity the venue has acknowledged as live
	PendingVolume    common.Volume // quantity of create/modify requests in flight
	CancelingVolume  common.Volume // quantity currently being canceled or superseded
}

func newLevel(price common.Price) Level {
	return Level{Price: price}
}

// ExpectedVolume is the quantity that will be live at quiescence if
// every in-flight transaction on this level succeeds.
func (l Level) ExpectedVolume() common.Volume {
	return l.WorkingVolume + l.PendingVolume - l.CancelingVolume
}

// FreeVolume is the desired volume not yet accounted for by anything
// working, pending or canceling.
func (l Level) FreeVolume() common.Volume {
	return l.DesiredVolume - l.ExpectedVolume()
}

// Empty reports whether all four counters are zero within epsilon —
// the level carries no state at all and may be trimmed by Shrink.
func (l Level) Empty() bool {
	return common.Compare(l.DesiredVolume, 0) == 0 &&
		common.Compare(l.WorkingVolume, 0) == 0 &&
		common.Compare(l.PendingVolume, 0) == 0 &&
		common.Compare(l.CancelingVolume, 0) == 0
}

func (l *Level) reset() {
	l.DesiredVolume = 0
	l.WorkingVolume = 0
	l.PendingVolume = 0
	l.CancelingVolume = 0
}
