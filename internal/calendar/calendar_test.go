package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseTimestamp(t *testing.T) {
	dt := Parse(4102403696789)
	assert.Equal(t, 2099, dt.Year)
	assert.Equal(t, 12, dt.Mon)
	assert.Equal(t, 31, dt.Day)
	assert.Equal(t, 365, dt.DayOfYear)
	assert.Equal(t, 4, dt.DayOfWeek)
	assert.Equal(t, 12, dt.Hour)
	assert.Equal(t, 34, dt.Min)
	assert.Equal(t, 56, dt.Sec)
	assert.Equal(t, 789, dt.Msec)
}

func TestMakeTimestamp(t *testing.T) {
	cases := []struct {
		name                                         string
		y, mon, day, hour, min, sec, msec, tzMins int
		want                                         int64
	}{
		{"epoch boundary below", 1969, 12, 31, 23, 59, 59, 999, 0, -1},
		{"epoch", 1970, 1, 1, 0, 0, 0, 0, 0, 0},
		{"negative tz pushes forward", 1970, 1, 1, 0, 0, 0, 0, -480, 28800000},
		{"far future", 2099, 12, 31, 12, 34, 56, 789, 0, 4102403696789},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Make(c.y, c.mon, c.day, c.hour, c.min, c.sec, c.msec, c.tzMins)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestIsLeap(t *testing.T) {
	cases := map[int]bool{
		1996: true, 1997: false, 1998: false, 1999: false,
		2000: true, 2004: true, 2020: true, 2024: true,
		2025: false, 2100: false, 2200: false, 2300: false, 2400: true,
	}
	for y, want := range cases {
		assert.Equal(t, want, IsLeap(y), "year %d", y)
	}
}

func TestDaysInMonth(t *testing.T) {
	nonLeap := []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	leap := []int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	for i, want := range nonLeap {
		assert.Equal(t, want, DaysInMonth(1999, i+1))
	}
	for i, want := range leap {
		assert.Equal(t, want, DaysInMonth(2000, i+1))
	}
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ts := rapid.Int64Range(0, 4102444800000).Draw(rt, "ts")
		dt := Parse(ts)
		back := Make(dt.Year, dt.Mon, dt.Day, dt.Hour, dt.Min, dt.Sec, dt.Msec, 0)
		assert.Equal(rt, ts, back)
	})
}
