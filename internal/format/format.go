// File: internal/format/format.go

// Package format renders listing numbers, phone numbers and timestamps the
// way the zh-TW UI displays them. Prices are stored in units of 萬 and
// sizes in 坪.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// trimmed renders a float without trailing zeros, keeping at most one
// decimal place.
func trimmed(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}

// Price renders a price stored in 萬. Ten thousand 萬 rolls over to 億.
func Price(price float64) string {
	if price >= 10000 {
		return trimmed(price/10000) + "億"
	}
	return trimmed(price) + "萬"
}

// PricePerPing renders a unit price. A zero value means the size was
// unknown and renders as a dash.
func PricePerPing(v float64) string {
	if v <= 0 {
		return "--萬/坪"
	}
	return trimmed(v) + "萬/坪"
}

// Size renders a floor area in 坪.
func Size(size float64) string {
	return trimmed(size) + "坪"
}

// Phone renders a local mobile number in the 0912-345-678 grouping. Numbers
// that are not ten digits are returned untouched.
func Phone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) != 10 {
		return phone
	}
	return fmt.Sprintf("%s-%s-%s", digits[:4], digits[4:7], digits[7:])
}

// Date renders a timestamp as a yyyy/MM/dd calendar date.
func Date(t time.Time) string {
	return t.Format("2006/01/02")
}

// RelativeTime renders how long ago t was, relative to now. Under a minute
// is 剛剛; past a week it falls back to the calendar date.
func RelativeTime(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "剛剛"
	case d < time.Hour:
		return fmt.Sprintf("%d分鐘前", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d小時前", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d天前", int(d.Hours()/24))
	default:
		return Date(t)
	}
}
