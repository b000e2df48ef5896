package station

import (
	"fmt"

	"github.com/kangtastic/timesignal/internal/calendar"
)

// xmitDCF77 encodes DCF77's 60-slot frame. The receiver locks on the
// 59th (sync) slot and then expects the *following* minute's time, so
// the BCD fields encode utcTimestamp+1 minute (adjusted for CET/CEST),
// not the minute being transmitted.
func xmitDCF77(utcTimestamp int64) Frame {
	utcDT := calendar.Parse(utcTimestamp)
	d := calendar.Parse(utcTimestamp + int64(GetInfo(DCF77).UTCOffsetMs))

	bits := make([]uint8, 60)
	bits[20] = 1
	bits[59] = syncMarker

	var inMins int
	isCEST := calendar.IsEUDST(utcDT, &inMins)
	isXmitCEST := isCEST != (inMins == 1)

	if 1 <= inMins && inMins <= 60 {
		bits[16] = 1
	}
	if isXmitCEST {
		bits[17] = 1
	} else {
		bits[18] = 1
	}

	cestOffset := int64(0)
	if isXmitCEST {
		cestOffset = 3600000
	}
	xmitTimestamp := d.Timestamp + cestOffset + 60000
	xd := calendar.Parse(xmitTimestamp)

	bits[20] = 1

	min := uint8(xd.Min % 10)
	bits[21] = min & 1
	bits[22] = (min >> 1) & 1
	bits[23] = (min >> 2) & 1
	bits[24] = (min >> 3) & 1

	min10 := uint8(xd.Min / 10)
	bits[25] = min10 & 1
	bits[26] = (min10 >> 1) & 1
	bits[27] = (min10 >> 2) & 1

	bits[28] = evenParity(bits, 21, 28)

	hour := uint8(xd.Hour % 10)
	bits[29] = hour & 1
	bits[30] = (hour >> 1) & 1
	bits[31] = (hour >> 2) & 1
	bits[32] = (hour >> 3) & 1

	hour10 := uint8(xd.Hour / 10)
	bits[33] = hour10 & 1
	bits[34] = (hour10 >> 1) & 1

	bits[35] = evenParity(bits, 29, 35)

	day := uint8(xd.Day % 10)
	bits[36] = day & 1
	bits[37] = (day >> 1) & 1
	bits[38] = (day >> 2) & 1
	bits[39] = (day >> 3) & 1

	day10 := uint8(xd.Day / 10)
	bits[40] = day10 & 1
	bits[41] = (day10 >> 1) & 1

	dow := uint8(xd.DayOfWeek)
	if dow == 0 {
		dow = 7
	}
	bits[42] = dow & 1
	bits[43] = (dow >> 1) & 1
	bits[44] = (dow >> 2) & 1

	mon := uint8(xd.Mon % 10)
	bits[45] = mon & 1
	bits[46] = (mon >> 1) & 1
	bits[47] = (mon >> 2) & 1
	bits[48] = (mon >> 3) & 1

	mon10 := uint8(xd.Mon / 10)
	bits[49] = mon10 & 1

	year := uint8(xd.Year % 10)
	bits[50] = year & 1
	bits[51] = (year >> 1) & 1
	bits[52] = (year >> 2) & 1
	bits[53] = (year >> 3) & 1

	year10 := uint8((xd.Year % 100) / 10)
	bits[54] = year10 & 1
	bits[55] = (year10 >> 1) & 1
	bits[56] = (year10 >> 2) & 1
	bits[57] = (year10 >> 3) & 1

	bits[58] = evenParity(bits, 36, 58)

	var f Frame
	j := 0
	for i := range bits {
		var loDsec uint32
		if bits[i] == syncMarker {
			loDsec = 0
		} else if bits[i] != 0 {
			loDsec = 2
		} else {
			loDsec = 1
		}
		lo := 100 * loDsec / msecsPerTick
		hi := TicksPerSec - lo
		f.setRange(&j, lo, hi)
	}

	f.Readout = readoutString(bits)
	f.Meaning = fmt.Sprintf("DCF77 next-minute %04d-%02d-%02d %02d:%02d CEST=%v",
		xd.Year, xd.Mon, xd.Day, xd.Hour, xd.Min, isXmitCEST)
	return f
}
