package surface

import (
	"sync"

	"github.com/mobile-next/fingers/touch"
	"github.com/mobile-next/fingers/utils"
)

var overscroll struct {
	mu      sync.Mutex
	binding *Binding
}

// EnableOverscrollSuppression attaches the shared listener that prevents
// the default bounce behavior of move frames on Window. Enabling twice
// keeps a single listener.
func EnableOverscrollSuppression() {
	overscroll.mu.Lock()
	defer overscroll.mu.Unlock()

	if overscroll.binding != nil {
		utils.Verbose("overscroll suppression already enabled")
		return
	}

	overscroll.binding = Window.Intercept(preventOverscroll)
	utils.Verbose("overscroll suppression enabled")
}

// DisableOverscrollSuppression detaches the shared listener. It is safe to
// call without a prior enable.
func DisableOverscrollSuppression() {
	overscroll.mu.Lock()
	defer overscroll.mu.Unlock()

	if overscroll.binding == nil {
		return
	}

	overscroll.binding.Unbind()
	overscroll.binding = nil
	utils.Verbose("overscroll suppression disabled")
}

func OverscrollSuppressed() bool {
	overscroll.mu.Lock()
	defer overscroll.mu.Unlock()
	return overscroll.binding != nil
}

func preventOverscroll(e *Event) error {
	if e.Frame.Kind == touch.Move {
		e.PreventDefault()
	}
	return nil
}
