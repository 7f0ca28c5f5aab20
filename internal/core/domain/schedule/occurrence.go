package schedule

import (
	"fmt"
	c "medremind/internal/core/domain/common"
	"time"

	"github.com/golang-module/carbon/v2"
)

// NextOccurrence returns the first instant strictly after now at which the time
// of day falls on an allowed weekday in loc. It returns false only when the
// weekday filter is empty and empty is EmptyWeekdaysNever.
func NextOccurrence(
	at TimeOfDay,
	weekdays c.Optional[WeekdaySet],
	empty EmptyWeekdays,
	loc *time.Location,
	now time.Time,
) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	// Days are stepped from local noon so that a DST shift never moves the date.
	local := now.In(loc)
	day := carbon.Time2Carbon(time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc))

	candidate := at.On(day.Carbon2Time(), loc)
	if !candidate.After(now) {
		day = day.AddDay()
		candidate = at.On(day.Carbon2Time(), loc)
	}

	if !weekdays.IsPresent {
		return candidate, true
	}
	if weekdays.Value.IsEmpty() {
		if empty == EmptyWeekdaysEveryDay {
			return candidate, true
		}
		return time.Time{}, false
	}

	for i := 0; i < 7; i++ {
		if weekdays.Value.Contains(WeekdayOf(candidate)) {
			return candidate, true
		}
		day = day.AddDay()
		candidate = at.On(day.Carbon2Time(), loc)
	}
	return time.Time{}, false
}

// Trigger is a recurrence the scheduler can ask for the next due instant.
type Trigger struct {
	At            TimeOfDay
	Weekdays      c.Optional[WeekdaySet]
	Location      *time.Location
	EmptyWeekdays EmptyWeekdays
}

func (t Trigger) Next(now time.Time) (time.Time, bool) {
	return NextOccurrence(t.At, t.Weekdays, t.EmptyWeekdays, t.Location, now)
}

func (t Trigger) String() string {
	days := "daily"
	if t.Weekdays.IsPresent {
		days = t.Weekdays.Value.String()
	}
	loc := "UTC"
	if t.Location != nil {
		loc = t.Location.String()
	}
	return fmt.Sprintf("%s %s %s", t.At, days, loc)
}
