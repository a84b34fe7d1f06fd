package common

// Flags is a small generic bitmask wrapper, the Go analogue of the
// original's BitMask<T> template (roq/shared/bitmask.h). T is any
// integer-backed flag type; the zero value is "nothing set".
type Flags[T ~uint32] struct {
	bits T
}

func NewFlags[T ~uint32](bits T) Flags[T] { return Flags[T]{bits: bits} }

func (f Flags[T]) Raw() T { return f.bits }

func (f Flags[T]) All(mask T) bool { return f.bits&mask == mask }

func (f Flags[T]) None(mask T) bool { return f.bits&mask == 0 }

func (f Flags[T]) Any(mask T) bool { return f.bits&mask != 0 }

func (f Flags[T]) Test(mask T) bool { return f.bits&mask != 0 }

// Set ORs flag into the mask and reports whether it changed anything.
func (f *Flags[T]) Set(flag T) bool {
	prev := f.bits
	f.bits |= flag
	return f.bits != prev
}

// Clear ANDs flag out of the mask and reports whether it changed anything.
func (f *Flags[T]) Clear(flag T) bool {
	prev := f.bits
	f.bits &^= flag
	return f.bits != prev
}
