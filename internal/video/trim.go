// File: internal/video/trim.go
package video

import "sync"

// TrimSelector tracks the preview window an agent marks on an uploaded
// video. Times are seconds from the start of the source. The invariant
// Start <= End <= Duration always holds; marking one bound past the other
// clamps the other bound to it.
type TrimSelector struct {
	mu       sync.Mutex
	duration float64
	start    float64
	end      float64
	position float64
}

// NewTrimSelector creates a selector spanning the whole video: start 0,
// end at the duration.
func NewTrimSelector(duration float64) *TrimSelector {
	if duration < 0 {
		duration = 0
	}
	return &TrimSelector{
		duration: duration,
		end:      duration,
	}
}

// Window returns the current start and end marks.
func (t *TrimSelector) Window() (start, end float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.start, t.end
}

// Position returns the current playback position.
func (t *TrimSelector) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// Duration returns the source video length.
func (t *TrimSelector) Duration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MarkStart sets the window start at the given time. A start past the
// current end drags the end along with it.
func (t *TrimSelector) MarkStart(at float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start = clamp(at, 0, t.duration)
	if t.end < t.start {
		t.end = t.start
	}
	t.position = clamp(t.position, t.start, t.end)
}

// MarkEnd sets the window end at the given time. An end before the current
// start drags the start back with it.
func (t *TrimSelector) MarkEnd(at float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.end = clamp(at, 0, t.duration)
	if t.start > t.end {
		t.start = t.end
	}
	t.position = clamp(t.position, t.start, t.end)
}

// Seek moves the playback position, clamped into the window.
func (t *TrimSelector) Seek(at float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = clamp(at, t.start, t.end)
}

// Tick advances the playback position by dt seconds of looped preview
// playback. Reaching the end of the window wraps back to the start, so the
// marked segment plays on repeat. Returns the new position.
func (t *TrimSelector) Tick(dt float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if dt < 0 {
		return t.position
	}
	t.position += dt
	if t.position >= t.end {
		t.position = t.start
	}
	return t.position
}

// Reset restores the full-span window for a new source duration.
func (t *TrimSelector) Reset(duration float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if duration < 0 {
		duration = 0
	}
	t.duration = duration
	t.start = 0
	t.end = duration
	t.position = 0
}
