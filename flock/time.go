package flock

import "time"

// =============================================================================
// DAY POINT - Day-granular time (the accounting calendar knows no hours)
// =============================================================================

// DayPoint is a calendar day in UTC. All record streams, movements, and
// accounting weeks are keyed by DayPoint; anything finer is truncated.
type DayPoint struct {
	Time time.Time
}

func NewDay(year int, month time.Month, day int) DayPoint {
	return DayPoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an arbitrary time to its UTC calendar day.
func DayOf(t time.Time) DayPoint {
	return NewDay(t.UTC().Year(), t.UTC().Month(), t.UTC().Day())
}

func Today() DayPoint { return DayOf(time.Now()) }

// ParseDay parses a 2006-01-02 date string.
func ParseDay(s string) (DayPoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DayPoint{}, err
	}
	return DayOf(t), nil
}

// Comparison
func (d DayPoint) Before(other DayPoint) bool        { return d.norm().Before(other.norm()) }
func (d DayPoint) Equal(other DayPoint) bool         { return d.norm().Equal(other.norm()) }
func (d DayPoint) After(other DayPoint) bool         { return d.norm().After(other.norm()) }
func (d DayPoint) BeforeOrEqual(other DayPoint) bool { return d.Before(other) || d.Equal(other) }
func (d DayPoint) AfterOrEqual(other DayPoint) bool  { return d.After(other) || d.Equal(other) }

func (d DayPoint) norm() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d DayPoint) AddDays(n int) DayPoint { return DayPoint{Time: d.norm().AddDate(0, 0, n)} }

func (d DayPoint) IsZero() bool { return d.Time.IsZero() }

func (d DayPoint) String() string { return d.norm().Format("2006-01-02") }

// DaysBetween returns the whole days from 'from' to 'to' (negative if
// 'to' precedes 'from').
func DaysBetween(from, to DayPoint) int {
	return int(to.norm().Sub(from.norm()).Hours() / 24)
}

// MinDay and MaxDay pick calendar extremes; zero values lose.
func MinDay(a, b DayPoint) DayPoint {
	if a.IsZero() {
		return b
	}
	if b.IsZero() || a.Before(b) {
		return a
	}
	return b
}

func MaxDay(a, b DayPoint) DayPoint {
	if a.IsZero() {
		return b
	}
	if b.IsZero() || a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// DATE RANGE - Inclusive [From, To] interval
// =============================================================================

// DateRange is the inclusive window every source interface is queried
// with. A range with To before From is invalid; callers validate with
// IsValid before any fetch or computation begins.
type DateRange struct {
	From DayPoint
	To   DayPoint
}

func NewDateRange(from, to DayPoint) DateRange { return DateRange{From: from, To: to} }

func (r DateRange) IsValid() bool { return !r.To.Before(r.From) }

func (r DateRange) Contains(d DayPoint) bool {
	return d.AfterOrEqual(r.From) && d.BeforeOrEqual(r.To)
}

// Days returns every day in the range, ascending.
func (r DateRange) Days() []DayPoint {
	var days []DayPoint
	for cur := r.From; cur.BeforeOrEqual(r.To); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

func (r DateRange) String() string {
	return "[" + r.From.String() + ", " + r.To.String() + "]"
}
