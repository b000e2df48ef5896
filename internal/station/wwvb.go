package station

import (
	"fmt"

	"github.com/kangtastic/timesignal/internal/calendar"
)

// xmitWWVB encodes WWVB's 60-slot frame, transmitting the current
// (not next) UTC minute's BCD time, DUT1 sign/magnitude, leap-year flag,
// and the two US-DST indicators (end-of-day, start-of-day).
func xmitWWVB(utcTimestamp int64, dut1Ms int16) Frame {
	utcDT := calendar.Parse(utcTimestamp)
	d := calendar.Parse(utcTimestamp + int64(GetInfo(WWVB).UTCOffsetMs))

	bits := make([]uint8, 60)
	for _, s := range []int{0, 9, 19, 29, 39, 49, 59} {
		bits[s] = syncMarker
	}

	min10 := uint8(d.Min / 10)
	bits[1] = (min10 >> 2) & 1
	bits[2] = (min10 >> 1) & 1
	bits[3] = min10 & 1

	min := uint8(d.Min % 10)
	bits[5] = (min >> 3) & 1
	bits[6] = (min >> 2) & 1
	bits[7] = (min >> 1) & 1
	bits[8] = min & 1

	hour10 := uint8(d.Hour / 10)
	bits[12] = (hour10 >> 1) & 1
	bits[13] = hour10 & 1

	hour := uint8(d.Hour % 10)
	bits[15] = (hour >> 3) & 1
	bits[16] = (hour >> 2) & 1
	bits[17] = (hour >> 1) & 1
	bits[18] = hour & 1

	doy100 := uint8(d.DayOfYear / 100)
	bits[22] = (doy100 >> 1) & 1
	bits[23] = doy100 & 1

	doy10 := uint8((d.DayOfYear % 100) / 10)
	bits[25] = (doy10 >> 3) & 1
	bits[26] = (doy10 >> 2) & 1
	bits[27] = (doy10 >> 1) & 1
	bits[28] = doy10 & 1

	doy := uint8(d.DayOfYear % 10)
	bits[30] = (doy >> 3) & 1
	bits[31] = (doy >> 2) & 1
	bits[32] = (doy >> 1) & 1
	bits[33] = doy & 1

	dut1 := dut1Ms / 100
	lt0 := dut1 < 0
	if dut1 >= 0 {
		bits[36], bits[38] = 1, 1
	} else {
		bits[37] = 1
	}
	if lt0 {
		dut1 = -dut1
	}
	bits[40] = uint8((dut1 >> 3) & 1)
	bits[41] = uint8((dut1 >> 2) & 1)
	bits[42] = uint8((dut1 >> 1) & 1)
	bits[43] = uint8(dut1 & 1)

	year10 := uint8((d.Year % 100) / 10)
	bits[45] = (year10 >> 3) & 1
	bits[46] = (year10 >> 2) & 1
	bits[47] = (year10 >> 1) & 1
	bits[48] = year10 & 1

	year := uint8(d.Year % 10)
	bits[50] = (year >> 3) & 1
	bits[51] = (year >> 2) & 1
	bits[52] = (year >> 1) & 1
	bits[53] = year & 1

	if calendar.IsLeap(utcDT.Year) {
		bits[55] = 1
	}

	var isDSTEnd bool
	isDSTStart := calendar.IsUSDST(utcDT, &isDSTEnd)
	if isDSTStart {
		bits[58] = 1
	}
	if isDSTEnd {
		bits[57] = 1
	}

	var f Frame
	j := 0
	for i := range bits {
		var dsecLo uint32
		switch {
		case bits[i] == syncMarker:
			dsecLo = 8
		case bits[i] != 0:
			dsecLo = 5
		default:
			dsecLo = 2
		}
		lo := 100 * dsecLo / msecsPerTick
		hi := TicksPerSec - lo
		f.setRange(&j, lo, hi)
	}

	f.Readout = readoutString(bits)
	f.Meaning = fmt.Sprintf("WWVB %04d-%02d-%02d %02d:%02d doy=%d leap=%v dst_end=%v dst_start=%v",
		d.Year, d.Mon, d.Day, d.Hour, d.Min, d.DayOfYear,
		calendar.IsLeap(utcDT.Year), isDSTEnd, isDSTStart)
	return f
}
