// Package geometry maps wall-clock times onto the vertical drag surface of a
// timeline column and back.
//
// Converting an offset back to a time snaps to SnapMinutes, so
// OffsetToTime(TimeToOffset(t)) is idempotent but only equals t when t is
// already on a snap boundary; otherwise the result is within SnapMinutes/2
// of t (or, at the very end of the day, within SnapMinutes).
package geometry

import (
	"errors"
	"fmt"
	"math"
)

const (
	// SnapMinutes is the granularity of every offset-to-time conversion.
	SnapMinutes = 5

	// DefaultPixelsPerHour matches one 60px row per hour.
	DefaultPixelsPerHour = 60

	MinutesPerDay = 24 * 60

	// lastSnap is the latest time of day an offset can snap to (23:55).
	lastSnap = MinutesPerDay - SnapMinutes
)

var ErrBadClock = errors.New("geometry: malformed HH:MM time")

// Scale is the fixed pixel density of a timeline column.
type Scale struct {
	PixelsPerHour float64
}

// NewScale returns a Scale, substituting the default for non-positive input.
func NewScale(pixelsPerHour float64) Scale {
	if pixelsPerHour <= 0 {
		pixelsPerHour = DefaultPixelsPerHour
	}
	return Scale{PixelsPerHour: pixelsPerHour}
}

// TimeToOffset returns (hours + minutes/60) * PixelsPerHour.
func (s Scale) TimeToOffset(t string) (float64, error) {
	mins, err := ParseClock(t)
	if err != nil {
		return 0, err
	}
	return s.MinutesToOffset(mins), nil
}

func (s Scale) MinutesToOffset(mins int) float64 {
	return float64(mins) / 60 * s.pph()
}

// OffsetToMinutes converts an offset to minutes since midnight, snapped to
// the nearest SnapMinutes boundary and clamped to [00:00, 23:55].
func (s Scale) OffsetToMinutes(offset float64) int {
	total := offset / s.pph() * 60
	snapped := int(math.Round(total/SnapMinutes)) * SnapMinutes
	if snapped < 0 {
		return 0
	}
	if snapped > lastSnap {
		return lastSnap
	}
	return snapped
}

// OffsetToTime is OffsetToMinutes rendered as HH:MM.
func (s Scale) OffsetToTime(offset float64) string {
	return FormatClock(s.OffsetToMinutes(offset))
}

func (s Scale) pph() float64 {
	if s.PixelsPerHour <= 0 {
		return DefaultPixelsPerHour
	}
	return s.PixelsPerHour
}

// ParseClock parses HH:MM (or H:MM) into minutes since midnight.
func ParseClock(t string) (int, error) {
	if len(t) < 4 || len(t) > 5 || t[len(t)-3] != ':' {
		return 0, ErrBadClock
	}
	h, ok := digits(t[:len(t)-3])
	if !ok {
		return 0, ErrBadClock
	}
	m, ok := digits(t[len(t)-2:])
	if !ok {
		return 0, ErrBadClock
	}
	if h > 23 || m > 59 {
		return 0, ErrBadClock
	}
	return h*60 + m, nil
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, len(s) > 0
}

// FormatClock renders minutes since midnight as zero-padded HH:MM, clamping
// into the same day.
func FormatClock(mins int) string {
	if mins < 0 {
		mins = 0
	}
	if mins > MinutesPerDay-1 {
		mins = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// Duration returns end-start in minutes. It is negative or zero when end is
// not after start; callers decide whether to reject or clamp.
func Duration(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// Before reports whether a is strictly earlier than b. Malformed input is
// never before anything.
func Before(a, b string) bool {
	am, err := ParseClock(a)
	if err != nil {
		return false
	}
	bm, err := ParseClock(b)
	if err != nil {
		return false
	}
	return am < bm
}
