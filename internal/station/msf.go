package station

import (
	"fmt"

	"github.com/kangtastic/timesignal/internal/calendar"
)

// xmitMSF encodes MSF's 60-slot frame. Like DCF77, the BCD time fields
// describe the *next* UTC minute (MSF's minute marker falls at slot 0
// of the minute whose time is about to begin broadcasting). DUT1's sign
// selects which half of slots 1..16 carries the unary magnitude; slots
// 53..58 carry a fixed 01111110 secondary minute marker independent of
// the data they would otherwise hold.
func xmitMSF(utcTimestamp int64, dut1Ms int16) Frame {
	utcDT := calendar.Parse(utcTimestamp)
	d := calendar.Parse(utcTimestamp + int64(GetInfo(MSF).UTCOffsetMs))

	bits := make([]uint8, 60)
	bits[0] = syncMarker

	dut1 := dut1Ms / 100
	lt0 := 0
	if dut1 < 0 {
		lt0 = 8
		dut1 = -dut1
	}
	for i := int16(1); i <= 8; i++ {
		v := uint8(0)
		if dut1 >= i {
			v = 1
		}
		bits[int(i)+lt0] = v
	}

	var inMins int
	isBST := calendar.IsEUDST(utcDT, &inMins)
	isXmitBST := isBST != (inMins == 1)

	bstOffset := int64(0)
	if isXmitBST {
		bstOffset = 3600000
	}
	xmitTimestamp := d.Timestamp + bstOffset + 60000
	xd := calendar.Parse(xmitTimestamp)

	year10 := uint8((xd.Year % 100) / 10)
	bits[17] = (year10 >> 3) & 1
	bits[18] = (year10 >> 2) & 1
	bits[19] = (year10 >> 1) & 1
	bits[20] = year10 & 1

	year := uint8(xd.Year % 10)
	bits[21] = (year >> 3) & 1
	bits[22] = (year >> 2) & 1
	bits[23] = (year >> 1) & 1
	bits[24] = year & 1

	mon10 := uint8(xd.Mon / 10)
	bits[25] = mon10 & 1

	mon := uint8(xd.Mon % 10)
	bits[26] = (mon >> 3) & 1
	bits[27] = (mon >> 2) & 1
	bits[28] = (mon >> 1) & 1
	bits[29] = mon & 1

	day10 := uint8(xd.Day / 10)
	bits[30] = (day10 >> 1) & 1
	bits[31] = day10 & 1

	day := uint8(xd.Day % 10)
	bits[32] = (day >> 3) & 1
	bits[33] = (day >> 2) & 1
	bits[34] = (day >> 1) & 1
	bits[35] = day & 1

	dow := uint8(xd.DayOfWeek)
	bits[36] = (dow >> 2) & 1
	bits[37] = (dow >> 1) & 1
	bits[38] = dow & 1

	hour10 := uint8(xd.Hour / 10)
	bits[39] = (hour10 >> 1) & 1
	bits[40] = hour10 & 1

	hour := uint8(xd.Hour % 10)
	bits[41] = (hour >> 3) & 1
	bits[42] = (hour >> 2) & 1
	bits[43] = (hour >> 1) & 1
	bits[44] = hour & 1

	min10 := uint8(xd.Min / 10)
	bits[45] = (min10 >> 2) & 1
	bits[46] = (min10 >> 1) & 1
	bits[47] = min10 & 1

	min := uint8(xd.Min % 10)
	bits[48] = (min >> 3) & 1
	bits[49] = (min >> 2) & 1
	bits[50] = (min >> 1) & 1
	bits[51] = min & 1

	if 1 <= inMins && inMins <= 61 {
		bits[53] = 1
	}
	bits[54] = oddParity(bits, 17, 25)
	bits[55] = oddParity(bits, 25, 36)
	bits[56] = oddParity(bits, 36, 39)
	bits[57] = oddParity(bits, 39, 52)
	if isXmitBST {
		bits[58] = 1
	}

	var f Frame
	j := 0
	for i := range bits {
		var dsecLo uint32
		if bits[i] == syncMarker {
			dsecLo = 5
		} else if bits[i] != 0 {
			dsecLo = 2
		} else {
			dsecLo = 1
		}
		if i >= 53 && i <= 58 {
			dsecLo++ // secondary 01111110 minute marker
		}
		lo := 100 * dsecLo / msecsPerTick
		hi := TicksPerSec - lo
		f.setRange(&j, lo, hi)
	}

	f.Readout = readoutString(bits)
	f.Meaning = fmt.Sprintf("MSF next-minute %04d-%02d-%02d %02d:%02d BST=%v",
		xd.Year, xd.Mon, xd.Day, xd.Hour, xd.Min, isXmitBST)
	return f
}
