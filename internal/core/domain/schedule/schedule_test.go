package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		value    string
		expected TimeOfDay
		err      error
	}{
		{value: "08:00", expected: TimeOfDay{Hour: 8}},
		{value: "8:05", expected: TimeOfDay{Hour: 8, Minute: 5}},
		{value: "23:59", expected: TimeOfDay{Hour: 23, Minute: 59}},
		{value: " 00:00 ", expected: TimeOfDay{}},
		{value: "24:00", err: ErrInvalidTimeOfDay},
		{value: "12:60", err: ErrInvalidTimeOfDay},
		{value: "12:5", err: ErrInvalidTimeOfDay},
		{value: "noon", err: ErrInvalidTimeOfDay},
		{value: "12:00:00", err: ErrInvalidTimeOfDay},
		{value: "", err: ErrInvalidTimeOfDay},
	}

	for _, testcase := range cases {
		t.Run(testcase.value, func(t *testing.T) {
			assert := require.New(t)
			tod, err := ParseTimeOfDay(testcase.value)
			if testcase.err != nil {
				assert.ErrorIs(err, testcase.err)
				return
			}
			assert.Nil(err)
			assert.Equal(testcase.expected, tod)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	require.Equal(t, "07:05", TimeOfDay{Hour: 7, Minute: 5}.String())
}

func TestWeekdayOf(t *testing.T) {
	assert := require.New(t)
	// 2024-01-08 is a Monday.
	monday := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(Weekday(i), WeekdayOf(monday.AddDate(0, 0, i)))
	}
}

func TestWeekdaySet(t *testing.T) {
	assert := require.New(t)

	set, err := ParseWeekdaySet([]int{0, 2, 4, 2})
	assert.Nil(err)
	assert.True(set.Contains(Monday))
	assert.False(set.Contains(Tuesday))
	assert.True(set.Contains(Friday))
	assert.Equal([]int{0, 2, 4}, set.Ints())
	assert.Equal("Mon,Wed,Fri", set.String())
	assert.False(set.IsEmpty())
	assert.True(NewWeekdaySet().IsEmpty())

	_, err = ParseWeekdaySet([]int{7})
	assert.ErrorIs(err, ErrInvalidWeekday)
	_, err = ParseWeekdaySet([]int{-1})
	assert.ErrorIs(err, ErrInvalidWeekday)
}
