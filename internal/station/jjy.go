package station

import (
	"fmt"

	"github.com/kangtastic/timesignal/internal/calendar"
)

const (
	jjyMorseMin     = 15
	jjyMorseMin2    = 45
	jjyMorseSec     = 40
	jjyMorseMs      = 550
	jjyMorseEndSec  = 49
	jjyMorseTick    = jjyMorseSec*TicksPerSec + jjyMorseMs/msecsPerTick
	jjyMorseEndTick = jjyMorseEndSec * TicksPerSec
)

// Morse timing, in ticks (50ms units): dit 100ms, dah 250ms, gaps of
// 50ms between elements, 300ms between characters and 500ms between
// words, so that the two-repetition "JJY" callsign runs from 40.550s to
// 48.250s, inside the ~8.45s window returned by MorseWindow.
const (
	ticksPerDit = 2
	ticksPerDah = 5
	ticksPerIEG = 1  // inter-element gap
	ticksPerICG = 6  // inter-character gap
	ticksPerIWG = 10 // inter-word gap
)

// pulse sets ticks highs starting at *k and advances *k by ticks.
func pulse(f *Frame, k *int, ticks int) {
	for i := 0; i < ticks; i++ {
		f.setTick(*k)
		*k++
	}
}

// overwriteMorse burns the JJY callsign ("JJY" in Morse, twice) into the
// tick bitmap across [40s, 49s). This window is intentionally wider than
// both the Morse transmission itself (40.550-48.250s) and the
// low-gain-as-zero window applied by the scheduler (MorseWindow,
// 40.550-49s): spec.md documents this as a verbatim-preserved
// discrepancy, derived from on-air observation rather than the
// station's published technical spec.
func overwriteMorse(f *Frame) {
	for i := jjyMorseSec * TicksPerSec; i < jjyMorseEndSec*TicksPerSec; i++ {
		f.clearTick(i)
	}

	k := jjyMorseTick
	for rep := 0; rep < 2; rep++ {
		// "JJ", i.e. .--- .---
		for j := 0; j < 2; j++ {
			pulse(f, &k, ticksPerDit)
			k += ticksPerIEG
			pulse(f, &k, ticksPerDah)
			k += ticksPerIEG
			pulse(f, &k, ticksPerDah)
			k += ticksPerIEG
			pulse(f, &k, ticksPerDah)
			k += ticksPerICG
		}
		// "Y", i.e. -.--
		pulse(f, &k, ticksPerDah)
		k += ticksPerIEG
		pulse(f, &k, ticksPerDit)
		k += ticksPerIEG
		pulse(f, &k, ticksPerDah)
		k += ticksPerIEG
		pulse(f, &k, ticksPerDah)
		k += ticksPerIWG
	}
}

// xmitJJY encodes the 60-slot frame shared by JJY (40kHz) and JJY60
// (60kHz); during minutes 15 and 45 the year/day-of-week fields are
// omitted and slots 40..48 are overwritten with the station's Morse
// callsign announcement.
func xmitJJY(id ID, utcTimestamp int64) Frame {
	d := calendar.Parse(utcTimestamp + int64(GetInfo(JJY).UTCOffsetMs))

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

	bits[36] = evenParity(bits, 12, 19)
	bits[37] = evenParity(bits, 1, 9)

	isAnnounce := IsJJYMorseMinute(d.Min)
	if !isAnnounce {
		year10 := uint8((d.Year % 100) / 10)
		bits[41] = (year10 >> 3) & 1
		bits[42] = (year10 >> 2) & 1
		bits[43] = (year10 >> 1) & 1
		bits[44] = year10 & 1

		year := uint8(d.Year % 10)
		bits[45] = (year >> 3) & 1
		bits[46] = (year >> 2) & 1
		bits[47] = (year >> 1) & 1
		bits[48] = year & 1

		dow := uint8(d.DayOfWeek)
		bits[50] = (dow >> 2) & 1
		bits[51] = (dow >> 1) & 1
		bits[52] = dow & 1
	}

	var f Frame
	j := 0
	for i := 0; i < len(bits); i++ {
		if isAnnounce && i == jjyMorseSec {
			overwriteMorse(&f)
			i = jjyMorseEndSec
			j = jjyMorseEndTick
		}

		var hiDsec uint32
		switch {
		case bits[i] == syncMarker:
			hiDsec = 2
		case bits[i] != 0:
			hiDsec = 5
		default:
			hiDsec = 8
		}
		hi := 100 * hiDsec / msecsPerTick
		lo := TicksPerSec - hi
		for ; hi > 0; j, hi = j+1, hi-1 {
			f.setTick(j)
		}
		for ; lo > 0; j, lo = j+1, lo-1 {
			f.clearTick(j)
		}
	}

	name := "JJY"
	if id == JJY60 {
		name = "JJY60"
	}
	f.Readout = readoutString(bits)
	if isAnnounce {
		f.Meaning = fmt.Sprintf("%s %02d:%02d doy=%d [callsign announcement]",
			name, d.Hour, d.Min, d.DayOfYear)
	} else {
		f.Meaning = fmt.Sprintf("%s %02d:%02d doy=%d dow=%d",
			name, d.Hour, d.Min, d.DayOfYear, d.DayOfWeek)
	}
	return f
}

// MorseWindow returns the tick range, in [lo, hi), during which JJY's
// low-gain amplitude must be held at 0 (on-off keying) rather than the
// normal xmit_low, during an announcement minute. Per spec.md's open
// question, this is deliberately narrower than the bitmap-overwrite
// window in overwriteMorse: it starts at the first Morse element
// (40.550s) and runs on past the end of the transmission (~48.250s) to
// 49s, while the bitmap edit starts at 40s to redraw the (otherwise
// data-bearing) slots 40..48 it replaces.
func MorseWindow() (lo, hi int) {
	return jjyMorseTick, jjyMorseEndTick
}
