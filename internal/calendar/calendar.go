// Package calendar converts between Unix-ms timestamps and broken-down
// UTC dates, and evaluates the EU/US daylight-saving rules used by the
// DCF77, MSF, and WWVB encoders.
//
// The timestamp<->date conversion uses a shifted-epoch algorithm (the
// epoch translated to March 1, year 0, so the leap day falls at the end
// of the internal "year") rather than the Gregorian calendar's native
// January 1 epoch. This keeps the day-in-month and leap-year arithmetic
// branch-free and avoids any dependency on the platform tzdata, matching
// the original C implementation (src/datetime.c) this package is ported
// from.
package calendar

const (
	msecsSec  = 1000
	msecsMin  = 60 * msecsSec
	msecsHour = 60 * msecsMin
	msecsDay  = 24 * msecsHour
)

// DateTime is a UTC timestamp decomposed into its calendar fields.
type DateTime struct {
	Timestamp int64 // ms since 1970-01-01T00:00:00Z, as passed to Parse
	Year      int
	Mon       int // 1..12
	Day       int // 1..31
	DayOfYear int // 1..366
	DayOfWeek int // 0=Sunday .. 6=Saturday
	Hour      int
	Min       int
	Sec       int
	Msec      int
}

// IsLeap reports whether y is a Gregorian leap year.
func IsLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

var daysInMonthCommon = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in month mon (1..12) of year y.
func DaysInMonth(y, mon int) int {
	if mon == 2 && IsLeap(y) {
		return 29
	}
	return daysInMonthCommon[mon-1]
}

// civilFromDays converts a day count z, relative to 1970-01-01, into a
// (year, month, day) triple. Ported from Howard Hinnant's "chrono-Compatible
// Low-Level Date Algorithms" shifted-epoch civil_from_days.
func civilFromDays(z int64) (y int64, m int, d int) {
	z += 719468
	era := z
	if z < 0 {
		era -= 146096
	}
	era /= 146097
	doe := z - era*146097                                    // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365    // [0, 399]
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100) // [0, 365]
	mp := (5*doy + 2) / 153                  // [0, 11]
	d = int(doy - (153*mp+2)/5 + 1)          // [1, 31]
	if mp < 10 {
		m = int(mp) + 3
	} else {
		m = int(mp) - 9
	}
	if m <= 2 {
		y++
	}
	return y, m, d
}

// daysFromCivil is the inverse of civilFromDays.
func daysFromCivil(y int64, m, d int) int64 {
	if m <= 2 {
		y--
	}
	era := y
	if y < 0 {
		era -= 399
	}
	era /= 400
	yoe := y - era*400                                  // [0, 399]
	mp := int64(m)
	if mp > 2 {
		mp -= 3
	} else {
		mp += 9
	}
	doy := (153*mp+2)/5 + int64(d) - 1                  // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy               // [0, 146096]
	return era*146097 + doe - 719468
}

// Parse decomposes a Unix-ms timestamp (may be negative) into its UTC
// calendar fields.
func Parse(timestamp int64) DateTime {
	msecsOfDay := timestamp % msecsDay
	days := timestamp / msecsDay
	if msecsOfDay < 0 {
		msecsOfDay += msecsDay
		days--
	}

	y, mon, day := civilFromDays(days)

	// Day of week: 1970-01-01 was a Thursday (dow=4).
	dowI := (days%7 + 4 + 7) % 7

	// Day of year: distance (in days) from Jan 1 of the same year.
	jan1 := daysFromCivil(y, 1, 1)
	doy := int(days-jan1) + 1

	hour := int(msecsOfDay / msecsHour)
	rem := msecsOfDay % msecsHour
	minute := int(rem / msecsMin)
	rem %= msecsMin
	sec := int(rem / msecsSec)
	msec := int(rem % msecsSec)

	return DateTime{
		Timestamp: timestamp,
		Year:      int(y),
		Mon:       mon,
		Day:       day,
		DayOfYear: doy,
		DayOfWeek: int(dowI),
		Hour:      hour,
		Min:       minute,
		Sec:       sec,
		Msec:      msec,
	}
}

// Make composes a Unix-ms timestamp from broken-down UTC fields plus a
// timezone offset in minutes (subtracted to convert local time to UTC),
// the inverse of Parse.
func Make(y, mon, day, hour, minute, sec, msec, tzMins int) int64 {
	days := daysFromCivil(int64(y), mon, day)
	ts := days*msecsDay +
		int64(hour)*msecsHour +
		int64(minute)*msecsMin +
		int64(sec)*msecsSec +
		int64(msec)
	ts -= int64(tzMins) * msecsMin
	return ts
}

// lastSundayOfMonth returns the day-of-month of the last Sunday in month
// mon of year y.
func lastSundayOfMonth(y, mon int) int {
	last := DaysInMonth(y, mon)
	dow := Parse(Make(y, mon, last, 0, 0, 0, 0, 0)).DayOfWeek
	return last - dow
}

// IsEUDST reports whether Central European Summer Time (CEST) is in
// force at the given UTC instant. When a changeover (at 01:00 UTC on the
// last Sunday of March or October) is within the next 25 hours, inMins
// receives the number of minutes remaining until it; otherwise inMins
// receives -1. inMins may be nil.
func IsEUDST(dt DateTime, inMins *int) bool {
	set := func(v int) {
		if inMins != nil {
			*inMins = v
		}
	}

	switch {
	case dt.Mon < 3 || dt.Mon > 10:
		set(-1)
		return false
	case dt.Mon > 3 && dt.Mon < 10:
		set(-1)
		return true
	}

	var changeover int64
	if dt.Mon == 3 {
		changeover = Make(dt.Year, 3, lastSundayOfMonth(dt.Year, 3), 1, 0, 0, 0, 0)
	} else {
		changeover = Make(dt.Year, 10, lastSundayOfMonth(dt.Year, 10), 1, 0, 0, 0, 0)
	}

	diff := changeover - dt.Timestamp
	if diff > 0 && diff <= 25*msecsHour {
		set(int(diff / msecsMin))
	} else {
		set(-1)
	}

	if dt.Mon == 3 {
		return dt.Timestamp >= changeover
	}
	return dt.Timestamp < changeover
}

// IsUSDST reports whether North American observed daylight time is in
// force at the start of the UTC day containing dt (April-October always;
// March after the second Sunday; November through the first Sunday).
// isDSTEnd receives the same rule evaluated for the end of that day
// (i.e. whether daylight time is in force at the start of the following
// UTC day). isDSTEnd may be nil.
func IsUSDST(dt DateTime, isDSTEnd *bool) bool {
	set := func(v bool) {
		if isDSTEnd != nil {
			*isDSTEnd = v
		}
	}

	secondSunday := func(y, mon int) int {
		dow := Parse(Make(y, mon, 1, 0, 0, 0, 0, 0)).DayOfWeek
		firstSunday := 1 + (7-dow)%7
		return firstSunday + 7
	}
	firstSunday := func(y, mon int) int {
		dow := Parse(Make(y, mon, 1, 0, 0, 0, 0, 0)).DayOfWeek
		return 1 + (7-dow)%7
	}

	isDSTDay := func(y, mon, day int) bool {
		switch {
		case mon < 3 || mon > 11:
			return false
		case mon > 3 && mon < 11:
			return true
		case mon == 3:
			return day > secondSunday(y, 3)
		default: // mon == 11
			return day <= firstSunday(y, 11)
		}
	}

	today := isDSTDay(dt.Year, dt.Mon, dt.Day)

	// Determine the following UTC day for the end-of-day rule.
	nextDayTs := Make(dt.Year, dt.Mon, dt.Day, 0, 0, 0, 0, 0) + msecsDay
	nextDt := Parse(nextDayTs)
	tomorrow := isDSTDay(nextDt.Year, nextDt.Mon, nextDt.Day)
	set(tomorrow)

	return today
}
