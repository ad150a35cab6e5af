package render

import "sync"

// View holds the rendering currently on screen. Replace swaps the whole
// rendering; there is no incremental update.
type View struct {
	mu      sync.RWMutex
	current *Rendering
	version uint64
}

// NewView returns a View showing the empty rendering.
func NewView() *View {
	return &View{current: Empty()}
}

// Replace discards the displayed rendering and shows r. It returns the new
// view version.
func (v *View) Replace(r *Rendering) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = r
	v.version++

	return v.version
}

// Current returns the displayed rendering and its version.
func (v *View) Current() (*Rendering, uint64) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.current, v.version
}
