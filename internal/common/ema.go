package common

// EMA is an exponential moving average with an optional warmup period
// during which it reports not-ready, matching
// original_source/src/roq/shared/ema.h.
type EMA struct {
	alpha     float64
	value     float64
	countdown uint32
	warmup    uint32
}

// NewEMA builds an EMA with smoothing factor alpha over warmup initial
// updates before IsReady reports true.
func NewEMA(alpha float64, warmup uint32) *EMA {
	return &EMA{alpha: alpha, value: Undefined(), countdown: warmup, warmup: warmup}
}

func (e *EMA) Reset() {
	e.value = Undefined()
	e.countdown = e.warmup
}

func (e *EMA) IsReady() bool { return e.countdown == 0 }

// Value returns the current smoothed value (NaN before the first update).
func (e *EMA) Value() float64 { return e.value }

// Update folds value into the average and returns the new value.
func (e *EMA) Update(value float64) float64 {
	if e.countdown > 0 {
		e.countdown--
	}
	if IsUndefined(e.value) {
		e.value = value
		return e.value
	}
	e.value = e.alpha*value + (1-e.alpha)*e.value
	return e.value
}
