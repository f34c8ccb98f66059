package geometry

import (
	"testing"
)

func TestTimeToOffset(t *testing.T) {
	t.Parallel()

	s := NewScale(60)
	cases := map[string]float64{
		"00:00": 0,
		"09:00": 540,
		"09:30": 570,
		"23:59": 1439,
	}
	for in, want := range cases {
		got, err := s.TimeToOffset(in)
		if err != nil {
			t.Fatalf("TimeToOffset(%s): %v", in, err)
		}
		if got != want {
			t.Errorf("TimeToOffset(%s) = %v, want %v", in, got, want)
		}
	}

	double := NewScale(120)
	if got, _ := double.TimeToOffset("01:30"); got != 180 {
		t.Errorf("120px/h: got %v, want 180", got)
	}
}

func TestOffsetToTimeSnapsAndClamps(t *testing.T) {
	t.Parallel()

	s := NewScale(60)
	cases := []struct {
		offset float64
		want   string
	}{
		{0, "00:00"},
		{-30, "00:00"},
		{542, "09:00"},
		{543, "09:05"},
		{840, "14:00"},
		{1437, "23:55"},
		{1500, "23:55"},
		{5000, "23:55"},
	}
	for _, tc := range cases {
		if got := s.OffsetToTime(tc.offset); got != tc.want {
			t.Errorf("OffsetToTime(%v) = %s, want %s", tc.offset, got, tc.want)
		}
	}
}

// Every valid time survives a round trip within one snap step, and a
// second round trip changes nothing.
func TestRoundTripWithinSnap(t *testing.T) {
	t.Parallel()

	for _, pph := range []float64{60, 48, 100} {
		s := NewScale(pph)
		for mins := 0; mins < MinutesPerDay; mins++ {
			in := FormatClock(mins)
			off, err := s.TimeToOffset(in)
			if err != nil {
				t.Fatalf("TimeToOffset(%s): %v", in, err)
			}
			out := s.OffsetToTime(off)
			back, _ := ParseClock(out)
			diff := back - mins
			if diff < 0 {
				diff = -diff
			}
			if diff > SnapMinutes {
				t.Fatalf("pph=%v: %s -> %s drifts %d minutes", pph, in, out, diff)
			}
			off2, _ := s.TimeToOffset(out)
			if again := s.OffsetToTime(off2); again != out {
				t.Fatalf("pph=%v: not idempotent: %s -> %s -> %s", pph, in, out, again)
			}
		}
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	good := map[string]int{"00:00": 0, "9:05": 545, "23:59": 1439}
	for in, want := range good {
		got, err := ParseClock(in)
		if err != nil || got != want {
			t.Errorf("ParseClock(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "24:00", "12:60", "1205", "12:5", "ab:cd", "09:5x", "-1:00", "123:00"} {
		if _, err := ParseClock(bad); err != ErrBadClock {
			t.Errorf("ParseClock(%q) expected ErrBadClock, got %v", bad, err)
		}
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	if d, _ := Duration("09:00", "10:30"); d != 90 {
		t.Errorf("Duration = %d, want 90", d)
	}
	if d, _ := Duration("10:00", "09:00"); d != -60 {
		t.Errorf("Duration = %d, want -60", d)
	}
	if _, err := Duration("x", "09:00"); err == nil {
		t.Error("expected error for malformed start")
	}
	if !Before("09:00", "09:05") || Before("09:05", "09:05") || Before("bad", "10:00") {
		t.Error("Before misbehaves")
	}
}
