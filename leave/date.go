package leave

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Civil date abstraction (no timezone, day granularity)
// =============================================================================

// Date is a civil calendar date. All vacation arithmetic happens at day
// granularity; no timezone is modeled anywhere in the system.
type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string, the only wire format for dates.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return Date{t: t}, nil
}

// DateOf truncates a wall-clock time to its civil date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) String() string { return d.t.Format(dateLayout) }

// DaysInclusive returns the number of calendar days in [start, end], both ends
// counted. DaysInclusive(d, d) == 1.
func DaysInclusive(start, end Date) int {
	return int(end.t.Sub(start.t).Hours()/24) + 1
}

// EachDay calls fn for every day in [start, end] ascending, stopping early if
// fn returns false.
func EachDay(start, end Date, fn func(Date) bool) {
	for d := start; !d.After(end); d = d.AddDays(1) {
		if !fn(d) {
			return
		}
	}
}
