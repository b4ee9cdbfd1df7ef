// File: internal/video/trim_test.go
package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTrimSelector_SpansWholeVideo(t *testing.T) {
	sel := NewTrimSelector(120)

	start, end := sel.Window()
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 120.0, end)
	assert.Equal(t, 0.0, sel.Position())
}

func TestMarkStart_ClampsAndDragsEnd(t *testing.T) {
	sel := NewTrimSelector(120)
	sel.MarkEnd(60)

	sel.MarkStart(30)
	start, end := sel.Window()
	assert.Equal(t, 30.0, start)
	assert.Equal(t, 60.0, end)

	// Marking start past the end drags the end with it.
	sel.MarkStart(90)
	start, end = sel.Window()
	assert.Equal(t, 90.0, start)
	assert.Equal(t, 90.0, end)

	// Out-of-range marks clamp to the video bounds.
	sel.MarkStart(-5)
	start, _ = sel.Window()
	assert.Equal(t, 0.0, start)
	sel.MarkStart(500)
	start, _ = sel.Window()
	assert.Equal(t, 120.0, start)
}

func TestMarkEnd_ClampsAndDragsStart(t *testing.T) {
	sel := NewTrimSelector(120)
	sel.MarkStart(50)

	sel.MarkEnd(20)
	start, end := sel.Window()
	assert.Equal(t, 20.0, start)
	assert.Equal(t, 20.0, end)

	sel.MarkEnd(500)
	_, end = sel.Window()
	assert.Equal(t, 120.0, end)
}

func TestTick_LoopsInsideWindow(t *testing.T) {
	sel := NewTrimSelector(120)
	sel.MarkStart(10)
	sel.MarkEnd(20)
	sel.Seek(18)

	assert.Equal(t, 19.0, sel.Tick(1))
	// Crossing the end wraps back to the window start.
	assert.Equal(t, 10.0, sel.Tick(1.5))
	assert.Equal(t, 11.0, sel.Tick(1))

	// Negative ticks are ignored.
	assert.Equal(t, 11.0, sel.Tick(-5))
}

func TestSeek_ClampsIntoWindow(t *testing.T) {
	sel := NewTrimSelector(100)
	sel.MarkStart(10)
	sel.MarkEnd(20)

	sel.Seek(5)
	assert.Equal(t, 10.0, sel.Position())
	sel.Seek(50)
	assert.Equal(t, 20.0, sel.Position())
	sel.Seek(15)
	assert.Equal(t, 15.0, sel.Position())
}

func TestReset_RestoresFullSpan(t *testing.T) {
	sel := NewTrimSelector(100)
	sel.MarkStart(10)
	sel.MarkEnd(20)
	sel.Seek(15)

	sel.Reset(45)

	start, end := sel.Window()
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 45.0, end)
	assert.Equal(t, 0.0, sel.Position())
	assert.Equal(t, 45.0, sel.Duration())
}
