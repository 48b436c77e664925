package glass

import "sync/atomic"

// Settings publishes live parameter updates to a render loop with
// frame-boundary semantics.
//
// Hosts bind UI sliders to Set from any goroutine; the render loop calls
// Snapshot exactly once per frame and uses that immutable copy for every
// pixel. An update therefore takes effect on the next frame boundary,
// never mid-frame.
//
// Change detection lives here, outside the pure optical core: the
// generation counter tells callers whether anything changed since the
// last snapshot, which drives GPU uniform re-upload and tile
// invalidation.
type Settings struct {
	params atomic.Pointer[Params]
	gen    atomic.Uint64
}

// NewSettings creates a settings holder with the given initial
// parameters (clamped to their valid ranges).
func NewSettings(p Params) *Settings {
	s := &Settings{}
	clamped := p.Clamp()
	s.params.Store(&clamped)
	return s
}

// Set publishes new parameters, clamped to their valid ranges.
// No-op publishes (identical values) do not bump the generation, so
// redundant slider callbacks don't force re-renders.
func (s *Settings) Set(p Params) {
	clamped := p.Clamp()
	if cur := s.params.Load(); cur != nil && *cur == clamped {
		return
	}
	s.params.Store(&clamped)
	s.gen.Add(1)
}

// SetEnabled toggles the effect without touching the optical sliders.
func (s *Settings) SetEnabled(enabled bool) {
	cur := s.Params()
	cur.Enabled = enabled
	s.Set(cur)
}

// Params returns the current parameter values.
func (s *Settings) Params() Params {
	return *s.params.Load()
}

// Snapshot returns the current immutable parameter snapshot together
// with its generation. Callers compare the generation against the one
// from the previous frame to decide whether uniforms or tiles need
// refreshing.
func (s *Settings) Snapshot() (Params, uint64) {
	// Load the generation first: if a concurrent Set lands between the
	// two loads we report the newer params with an older generation and
	// the next frame simply re-detects the change.
	gen := s.gen.Load()
	return *s.params.Load(), gen
}
