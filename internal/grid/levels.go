package grid

import "quotecore/internal/common"

// Levels is the sorted, side-aware array of price Levels described in
// spec §4.1 — a contiguous run of rungs, position 0 always the current
// top price for the book's direction. Grounded on
// original_source/src/roq/shared/levels.h's Levels<T, DIR> template;
// DIR becomes the runtime Dir field per the spec's re-architecture note.
//
// Pointers returned by GetOrCreate/Nth/All are only valid until the
// next call that may grow the underlying slice (GetOrCreate or Erase
// extending the book). Callers must not retain them across such calls.
type Levels struct {
	dir      common.Dir
	tickSize common.Price
	topPrice common.Price
	data     []Level
}

// NewLevels constructs an empty Levels book for the given direction.
// tickSize may be common.Undefined() if not yet known; SetTickSize
// must be called before the first GetOrCreate.
func NewLevels(dir common.Dir, tickSize common.Price) *Levels {
	return &Levels{dir: dir, tickSize: tickSize, topPrice: common.Undefined()}
}

func (l *Levels) Dir() common.Dir { return l.dir }

func (l *Levels) TickSize() common.Price { return l.tickSize }

// SetTickSize sets the tick size. Spec precondition: only called while
// the book is empty (tick size changing under an existing grid would
// invalidate its index arithmetic).
func (l *Levels) SetTickSize(tick common.Price) {
	if len(l.data) != 0 {
		panic("grid: SetTickSize called on a non-empty Levels book")
	}
	l.tickSize = tick
}

func (l *Levels) Empty() bool { return len(l.data) == 0 }

func (l *Levels) Size() int { return len(l.data) }

// Top returns the current top price, or common.Undefined() if empty.
func (l *Levels) Top() common.Price {
	return l.topPrice
}

// Bottom returns the current bottom (least competitive) price.
func (l *Levels) Bottom() common.Price {
	if l.Empty() {
		return common.Undefined()
	}
	return l.topPrice - float64(l.dir)*float64(len(l.data))*l.tickSize + float64(l.dir)*l.tickSize
}

// Nth returns a pointer to the level at array index i, top-to-bottom.
func (l *Levels) Nth(i int) *Level {
	return &l.data[i]
}

// All returns pointers to every level, top to bottom. The slice itself
// is a fresh copy of the pointers (safe to range over even if the
// caller later calls GetOrCreate), but the pointed-to Levels alias the
// book's backing storage until the next growth.
func (l *Levels) All() []*Level {
	out := make([]*Level, len(l.data))
	for i := range l.data {
		out[i] = &l.data[i]
	}
	return out
}

// GetOrCreate returns the Level at price, extending the contiguous
// sequence (filling empty intermediates) as needed. price must be a
// multiple of the tick size within epsilon, and the tick size must
// already be set — both are fatal preconditions per spec §4.1.
func (l *Levels) GetOrCreate(price common.Price) *Level {
	if common.IsUndefined(l.tickSize) {
		panic("grid: GetOrCreate called before tick size was set")
	}
	if common.IsUndefined(price) {
		panic("grid: GetOrCreate called with a non-finite price")
	}
	priceBottom := common.RoundBottom(l.dir, price, l.tickSize)
	if common.Compare(price, priceBottom) != 0 {
		panic("grid: price is not a multiple of the tick size")
	}

	index := 0
	if !l.Empty() {
		index = int(float64(l.dir) * (l.topPrice - priceBottom) / l.tickSize)
	} else {
		l.topPrice = priceBottom
	}

	for index < 0 {
		l.topPrice += float64(l.dir) * l.tickSize
		l.data = append([]Level{newLevel(l.topPrice)}, l.data...)
		index++
	}

	for size, bottomPrice := len(l.data), l.bottomCandidate(); size <= index; size, bottomPrice = len(l.data), bottomPrice-float64(l.dir)*l.tickSize {
		l.data = append(l.data, newLevel(bottomPrice))
	}

	return &l.data[index]
}

// bottomCandidate is the price one rung past the current bottom — the
// next price Shrink/GetOrCreate would append at.
func (l *Levels) bottomCandidate() common.Price {
	return l.topPrice - float64(l.dir)*float64(len(l.data))*l.tickSize
}

// Erase resets the Level at price to zero and shrinks the book if that
// leaves empty levels at either end. Prices outside the current
// top/bottom range are a no-op.
func (l *Levels) Erase(price common.Price) {
	if l.Empty() {
		return
	}
	if common.PriceCompare(l.dir, price, l.topPrice) < 0 {
		return
	}
	if common.PriceCompare(l.dir, price, l.Bottom()) > 0 {
		return
	}
	level := l.GetOrCreate(price)
	level.reset()
	l.Shrink()
}

// ResetAll zeroes all four counters on every level, then shrinks the
// now-fully-empty book away to nothing. Used when an instrument goes
// through a hard reset (e.g. Disconnected) and every in-flight
// transaction is being abandoned, not just the desired ladder.
func (l *Levels) ResetAll() {
	for i := range l.data {
		l.data[i].reset()
	}
	l.Shrink()
}

// Shrink drops empty levels from both ends while they are empty.
func (l *Levels) Shrink() {
	for len(l.data) > 0 {
		top := &l.data[0]
		bottom := &l.data[len(l.data)-1]
		switch {
		case top.Empty():
			l.topPrice -= float64(l.dir) * l.tickSize
			l.data = l.data[1:]
		case bottom.Empty():
			l.data = l.data[:len(l.data)-1]
		default:
			return
		}
	}
	l.topPrice = common.Undefined()
}

// FindTop returns the first (most competitive) price whose level
// satisfies pred, scanning top to bottom. Returns one rung past the
// bottom when nothing matches (the cursor's final position after
// scanning every level), mirroring Levels::find_top.
func (l *Levels) FindTop(pred func(*Level) bool) common.Price {
	price := l.topPrice
	for i := range l.data {
		if pred(&l.data[i]) {
			return price
		}
		price -= float64(l.dir) * l.tickSize
	}
	return price
}

// FindBottom returns the first (least competitive) price whose level
// satisfies pred, scanning bottom to top. Returns one rung past the
// top when nothing matches, mirroring Levels::find_bottom.
func (l *Levels) FindBottom(pred func(*Level) bool) common.Price {
	price := l.Bottom()
	for i := len(l.data) - 1; i >= 0; i-- {
		if pred(&l.data[i]) {
			return price
		}
		price += float64(l.dir) * l.tickSize
	}
	return price
}
