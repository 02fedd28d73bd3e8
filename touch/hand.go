package touch

// HandListener is called with the Hand that fired and the frame's point set.
type HandListener func(h *Hand, points []Point) error

// Hand groups simultaneously active fingers.
type Hand struct {
	fingers   []*Finger
	listeners map[Kind][]HandListener
}

func NewHand() *Hand {
	return &Hand{
		listeners: make(map[Kind][]HandListener),
	}
}

// Add inserts f unless the same Finger is already a member.
func (h *Hand) Add(f *Finger) {
	if h.indexOf(f) >= 0 {
		return
	}
	h.fingers = append(h.fingers, f)
}

// Remove deletes f if it is a member.
func (h *Hand) Remove(f *Finger) {
	i := h.indexOf(f)
	if i < 0 {
		return
	}
	h.fingers = append(h.fingers[:i], h.fingers[i+1:]...)
}

// Get returns the member Finger with the given id, or nil.
func (h *Hand) Get(id int) *Finger {
	for _, f := range h.fingers {
		if f.id == id {
			return f
		}
	}
	return nil
}

// Fingers returns the members in insertion order.
func (h *Hand) Fingers() []*Finger {
	out := make([]*Finger, len(h.fingers))
	copy(out, h.fingers)
	return out
}

func (h *Hand) Len() int {
	return len(h.fingers)
}

func (h *Hand) On(kind Kind, fn HandListener) {
	h.listeners[kind] = append(h.listeners[kind], fn)
}

// Trigger calls every listener for kind in registration order. The first
// error stops dispatch and is returned.
func (h *Hand) Trigger(kind Kind, points []Point) error {
	for _, fn := range h.listeners[kind] {
		if err := fn(h, points); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hand) indexOf(f *Finger) int {
	for i, m := range h.fingers {
		if m == f {
			return i
		}
	}
	return -1
}
