package touch

// FingerListener is called with the Finger that fired and the point for
// the event.
type FingerListener func(f *Finger, p Point) error

// Finger tracks a single contact and its point history.
type Finger struct {
	id        int
	points    []Point
	listeners map[Kind][]FingerListener
}

func newFinger(p Point) *Finger {
	return &Finger{
		id:        p.ID,
		points:    []Point{p},
		listeners: make(map[Kind][]FingerListener),
	}
}

func (f *Finger) ID() int {
	return f.id
}

// Points returns a copy of the point history, oldest first.
func (f *Finger) Points() []Point {
	out := make([]Point, len(f.points))
	copy(out, f.points)
	return out
}

// Last returns the most recently recorded point.
func (f *Finger) Last() Point {
	return f.points[len(f.points)-1]
}

func (f *Finger) record(p Point) {
	f.points = append(f.points, p)
}

// On registers fn for kind. Registering the same listener twice makes it
// fire twice.
func (f *Finger) On(kind Kind, fn FingerListener) {
	f.listeners[kind] = append(f.listeners[kind], fn)
}

// Trigger calls every listener for kind in registration order. The first
// error stops dispatch and is returned.
func (f *Finger) Trigger(kind Kind, p Point) error {
	for _, fn := range f.listeners[kind] {
		if err := fn(f, p); err != nil {
			return err
		}
	}
	return nil
}
