package touch

// AnyFunc is called once for every Finger added to the main hand, with the
// main hand and the new Finger.
type AnyFunc func(main *Hand, f *Finger) error

// ArityFunc is called when a multi hand of a given size is formed. Fingers
// are passed in the order they were added to the hand.
type ArityFunc func(h *Hand, fingers ...*Finger) error

// Callbacks lists the optional per-arity callbacks plus the catch-all.
type Callbacks struct {
	Any   AnyFunc
	One   ArityFunc
	Two   ArityFunc
	Three ArityFunc
	Four  ArityFunc
	Five  ArityFunc
}

// MaxArity is the largest multi hand size with a dedicated callback.
const MaxArity = 5

var arityNames = [MaxArity]string{"one", "two", "three", "four", "five"}

// ArityName maps 1..5 to "one".."five". Any other count yields "".
func ArityName(n int) string {
	if n < 1 || n > MaxArity {
		return ""
	}
	return arityNames[n-1]
}

// ParseArity maps "one".."five" back to 1..5, or 0 if the name is unknown.
func ParseArity(name string) int {
	for i, s := range arityNames {
		if s == name {
			return i + 1
		}
	}
	return 0
}

// Config is the resolved callback table of a Session. Build one with
// CatchAll or PerArity.
type Config struct {
	any   AnyFunc
	arity [MaxArity]ArityFunc
}

// CatchAll builds a Config holding only the catch-all callback.
func CatchAll(fn AnyFunc) Config {
	return Config{any: fn}
}

// PerArity builds a Config from the per-arity callback set.
func PerArity(cb Callbacks) Config {
	return Config{
		any:   cb.Any,
		arity: [MaxArity]ArityFunc{cb.One, cb.Two, cb.Three, cb.Four, cb.Five},
	}
}

// WithArity returns a copy of c with fn set for hands of n fingers. Counts
// outside 1..5 are ignored.
func (c Config) WithArity(n int, fn ArityFunc) Config {
	if n >= 1 && n <= MaxArity {
		c.arity[n-1] = fn
	}
	return c
}

func (c Config) forArity(n int) ArityFunc {
	if n < 1 || n > MaxArity {
		return nil
	}
	return c.arity[n-1]
}
