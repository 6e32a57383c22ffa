package responsive

import "sync/atomic"

// State is the visibility state of one image.
type State struct {
	LazyLoad bool
	InView   bool
	Loaded   bool
}

// Env describes the rendering environment.
type Env struct {
	// ServerSide is true when rendering happens without a browser, which is
	// always the case for the Go renderers in this module.
	ServerSide bool
	// IntersectionObserver reports whether the client can observe viewport
	// intersections.
	IntersectionObserver bool
}

// ServerEnv is the environment of a server-side render.
var ServerEnv = Env{ServerSide: true}

// ShouldAdd reports whether the full-resolution image belongs in the output
// at all.
func ShouldAdd(s State, env Env) bool {
	switch {
	case !s.LazyLoad:
		return true
	case env.ServerSide:
		return false
	case env.IntersectionObserver:
		return s.InView || s.Loaded
	}
	return true
}

// ShouldShow reports whether the full-resolution image is visible, as
// opposed to present but transparent.
func ShouldShow(s State, env Env) bool {
	switch {
	case !s.LazyLoad:
		return true
	case env.ServerSide:
		return false
	case env.IntersectionObserver:
		return s.Loaded
	}
	return true
}

// Latch is a flag that can be set once and never cleared. The zero value is
// unfired and ready to use.
type Latch struct {
	fired atomic.Bool
}

// Fire sets the latch. It returns true only for the call that set it.
func (l *Latch) Fire() bool {
	return l.fired.CompareAndSwap(false, true)
}

// Fired reports whether the latch has been set.
func (l *Latch) Fired() bool {
	return l.fired.Load()
}

// Visibility tracks the in-view and loaded transitions of one image.
type Visibility struct {
	InView Latch
	Loaded Latch
}

// State returns the current state for an image with the given lazy-load
// setting.
func (v *Visibility) State(lazyLoad bool) State {
	return State{
		LazyLoad: lazyLoad,
		InView:   v.InView.Fired(),
		Loaded:   v.Loaded.Fired(),
	}
}
