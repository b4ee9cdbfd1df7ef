// File: internal/format/format_test.go
package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "2800萬", Price(2800))
	assert.Equal(t, "998.5萬", Price(998.5))
	assert.Equal(t, "1億", Price(10000))
	assert.Equal(t, "1.2億", Price(12000))
	assert.Equal(t, "2.5億", Price(25000))
}

func TestPricePerPing(t *testing.T) {
	assert.Equal(t, "93.3萬/坪", PricePerPing(93.3))
	assert.Equal(t, "100萬/坪", PricePerPing(100))
	assert.Equal(t, "--萬/坪", PricePerPing(0), "unknown size renders a dash")
}

func TestSize(t *testing.T) {
	assert.Equal(t, "30坪", Size(30))
	assert.Equal(t, "28.5坪", Size(28.5))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "0912-345-678", Phone("0912345678"))
	assert.Equal(t, "0912-345-678", Phone("0912-345-678"), "already formatted input is normalized")
	assert.Equal(t, "02-2345-6789", Phone("02-2345-6789"), "non-mobile lengths pass through")
	assert.Equal(t, "", Phone(""))
}

func TestDate(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025/03/09", Date(ts))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "剛剛", RelativeTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "5分鐘前", RelativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3小時前", RelativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2天前", RelativeTime(now.Add(-48*time.Hour), now))
	assert.Equal(t, "2025/03/01", RelativeTime(now.Add(-9*24*time.Hour), now))
}
