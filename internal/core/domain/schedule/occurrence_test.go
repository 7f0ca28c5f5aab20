package schedule

import (
	c "medremind/internal/core/domain/common"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.Nil(t, err)
	return loc
}

func TestNextOccurrence(t *testing.T) {
	newYork := mustLoad(t, "America/New_York")
	// 2024-01-09 is a Tuesday.
	cases := []struct {
		id       string
		at       TimeOfDay
		weekdays c.Optional[WeekdaySet]
		loc      *time.Location
		now      time.Time
		expected time.Time
	}{
		{
			id:       "daily, time already passed today",
			at:       TimeOfDay{Hour: 8},
			loc:      time.UTC,
			now:      time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			id:       "daily, later today",
			at:       TimeOfDay{Hour: 20, Minute: 30},
			loc:      time.UTC,
			now:      time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 9, 20, 30, 0, 0, time.UTC),
		},
		{
			id:       "exactly now is not strictly after",
			at:       TimeOfDay{Hour: 8},
			loc:      time.UTC,
			now:      time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			id:       "mon wed fri on tuesday morning",
			at:       TimeOfDay{Hour: 8},
			weekdays: c.Some(NewWeekdaySet(Monday, Wednesday, Friday)),
			loc:      time.UTC,
			now:      time.Date(2024, 1, 9, 7, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			id:       "only tuesday, tuesday already passed",
			at:       TimeOfDay{Hour: 8},
			weekdays: c.Some(NewWeekdaySet(Tuesday)),
			loc:      time.UTC,
			now:      time.Date(2024, 1, 9, 8, 0, 1, 0, time.UTC),
			expected: time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC),
		},
		{
			id:       "sunday from saturday night",
			at:       TimeOfDay{Hour: 10},
			weekdays: c.Some(NewWeekdaySet(Sunday)),
			loc:      time.UTC,
			now:      time.Date(2024, 1, 13, 23, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC),
		},
		{
			id:       "empty set means every day",
			at:       TimeOfDay{Hour: 8},
			weekdays: c.Some(NewWeekdaySet()),
			loc:      time.UTC,
			now:      time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			id:       "computed in user timezone",
			at:       TimeOfDay{Hour: 8},
			loc:      newYork,
			now:      time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC), // 07:00 in New York
			expected: time.Date(2024, 1, 9, 13, 0, 0, 0, time.UTC),
		},
		{
			id:       "user timezone is a day behind UTC",
			at:       TimeOfDay{Hour: 21},
			weekdays: c.Some(NewWeekdaySet(Tuesday)),
			loc:      newYork,
			now:      time.Date(2024, 1, 10, 1, 0, 0, 0, time.UTC), // Tuesday 20:00 in New York
			expected: time.Date(2024, 1, 10, 2, 0, 0, 0, time.UTC),
		},
		{
			id:       "across spring forward",
			at:       TimeOfDay{Hour: 8},
			loc:      newYork,
			now:      time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC), // Saturday 09:00 EST
			expected: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), // Sunday 08:00 EDT
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			assert := require.New(t)
			next, ok := NextOccurrence(
				testcase.at,
				testcase.weekdays,
				EmptyWeekdaysEveryDay,
				testcase.loc,
				testcase.now,
			)
			assert.True(ok)
			assert.True(testcase.expected.Equal(next), "expected %v, got %v", testcase.expected, next)
			assert.True(next.After(testcase.now))
		})
	}
}

func TestNextOccurrenceEmptySetNeverMatches(t *testing.T) {
	_, ok := NextOccurrence(
		TimeOfDay{Hour: 8},
		c.Some(NewWeekdaySet()),
		EmptyWeekdaysNever,
		time.UTC,
		time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC),
	)
	require.False(t, ok)
}

func TestNextOccurrenceIsStrictlyAfterNowAndDeterministic(t *testing.T) {
	assert := require.New(t)
	locations := []*time.Location{time.UTC, mustLoad(t, "America/New_York"), mustLoad(t, "Asia/Kolkata")}
	sets := []c.Optional[WeekdaySet]{
		c.None[WeekdaySet](),
		c.Some(NewWeekdaySet(Monday)),
		c.Some(NewWeekdaySet(Saturday, Sunday)),
		c.Some(NewWeekdaySet(Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday)),
	}
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, loc := range locations {
		for _, weekdays := range sets {
			for step := 0; step < 24*14; step += 7 {
				now := start.Add(time.Duration(step) * time.Hour).Add(17 * time.Minute)
				for _, at := range []TimeOfDay{{0, 0}, {8, 0}, {12, 17}, {23, 59}} {
					first, ok := NextOccurrence(at, weekdays, EmptyWeekdaysEveryDay, loc, now)
					assert.True(ok)
					second, _ := NextOccurrence(at, weekdays, EmptyWeekdaysEveryDay, loc, now)
					assert.True(first.After(now))
					assert.True(first.Equal(second))
					assert.True(first.Sub(now) <= 8*24*time.Hour)

					local := first.In(loc)
					assert.Equal(at.Hour, local.Hour())
					assert.Equal(at.Minute, local.Minute())
					if weekdays.IsPresent {
						assert.True(weekdays.Value.Contains(WeekdayOf(first.In(loc))))
					}
				}
			}
		}
	}
}

func TestTriggerNext(t *testing.T) {
	assert := require.New(t)
	d := Definition{At: TimeOfDay{Hour: 8}, Weekdays: c.Some(NewWeekdaySet(Monday, Wednesday, Friday))}
	trigger := d.Trigger(time.UTC, EmptyWeekdaysEveryDay)

	next, ok := trigger.Next(time.Date(2024, 1, 9, 7, 0, 0, 0, time.UTC))
	assert.True(ok)
	assert.Equal(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC), next)
	assert.Equal("08:00 Mon,Wed,Fri UTC", trigger.String())
}
