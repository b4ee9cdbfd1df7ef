// File: internal/feed/gesture.go
package feed

// Thresholds for classifying a vertical drag as a swipe. A drag counts when
// either its travel or its release velocity crosses the threshold.
const (
	SwipeOffsetThreshold   = 50.0
	SwipeVelocityThreshold = 500.0
)

// Direction is the feed navigation outcome of a gesture.
type Direction int

const (
	// Stay means the gesture was too small to navigate.
	Stay Direction = iota
	// Next moves focus toward newer-seen content (swipe up).
	Next
	// Previous moves focus back (swipe down).
	Previous
)

// Classify maps a vertical drag release to a navigation direction. Offset
// and velocity are positive downward. A downward drag past either threshold
// goes to the previous listing, an upward one to the next.
func Classify(offsetY, velocityY float64) Direction {
	if offsetY > SwipeOffsetThreshold || velocityY > SwipeVelocityThreshold {
		return Previous
	}
	if offsetY < -SwipeOffsetThreshold || velocityY < -SwipeVelocityThreshold {
		return Next
	}
	return Stay
}

// ClassifyKey maps a keyboard key to a navigation direction. Arrow keys and
// the vim-style j/k pair are supported; anything else stays put.
func ClassifyKey(key string) Direction {
	switch key {
	case "ArrowDown", "j":
		return Next
	case "ArrowUp", "k":
		return Previous
	default:
		return Stay
	}
}

// Apply navigates the store in the given direction.
func Apply(store *Store, d Direction) {
	switch d {
	case Next:
		store.Advance()
	case Previous:
		store.Retreat()
	}
}
