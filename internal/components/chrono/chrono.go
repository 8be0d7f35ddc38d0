package chrono

import (
	"time"
	_ "time/tzdata"
)

var london *time.Location

func init() {
	var err error
	london, err = time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
}

// London returns the [*time.Location] prices are published in.
func London() *time.Location {
	return london
}

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time in Europe/London.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().In(london)
}

// FixedTime always returns the same instant, for tests.
type FixedTime time.Time

func (f FixedTime) Now() time.Time {
	return time.Time(f).In(london)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
