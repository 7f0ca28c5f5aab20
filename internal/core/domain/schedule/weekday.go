package schedule

import (
	"strings"
	"time"
)

// Weekday counts from Monday, unlike time.Weekday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func NewWeekday(value int) (Weekday, error) {
	if value < int(Monday) || value > int(Sunday) {
		return 0, ErrInvalidWeekday
	}
	return Weekday(value), nil
}

func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "?"
	}
	return weekdayNames[d]
}

type WeekdaySet uint8

func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// ParseWeekdaySet builds a set from 0=Monday..6=Sunday numbers.
func ParseWeekdaySet(values []int) (WeekdaySet, error) {
	days := make([]Weekday, 0, len(values))
	for _, v := range values {
		d, err := NewWeekday(v)
		if err != nil {
			return 0, err
		}
		days = append(days, d)
	}
	return NewWeekdaySet(days...), nil
}

func (s WeekdaySet) Contains(d Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s&0x7f == 0
}

func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) Ints() []int {
	days := s.Days()
	values := make([]int, len(days))
	for ix, d := range days {
		values[ix] = int(d)
	}
	return values
}

func (s WeekdaySet) String() string {
	days := s.Days()
	names := make([]string, len(days))
	for ix, d := range days {
		names[ix] = d.String()
	}
	return strings.Join(names, ",")
}

// EmptyWeekdays decides what a present but empty weekday filter means.
type EmptyWeekdays int

const (
	EmptyWeekdaysEveryDay EmptyWeekdays = iota
	EmptyWeekdaysNever
)
