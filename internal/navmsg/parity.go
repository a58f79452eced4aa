// Package navmsg builds GPS L1 C/A navigation subframes (clock/ephemeris,
// 25-page almanac cycle, ionospheric/UTC page) and the ICD-GPS-200 parity
// that turns 24 source bits into a transmittable 30-bit word.
//
// Grounded on original_source/gps.c's eph2sbf, computeChecksum and
// generateNavMsg. Scale-factor divisors (POW2_M5 etc.) are reproduced
// exactly as literal float64 constants, not recomputed from math.Pow, to
// match the original bit-for-bit.
package navmsg

// bmask are the six parity-polynomial masks applied to the 24 source
// data bits (d1..d24) to compute D25..D30, per ICD-GPS-200. These are
// computeChecksum's bmask[], not gps.h's bit-reversed PB1..PB6 macros
// used elsewhere in the original for a different word-order convention.
var bmask = [6]uint32{
	0x3B1F3480, 0x1D8F9A40, 0x2EC7CD00,
	0x1763E680, 0x2BB1F340, 0x0B7A89C0,
}

func countBits(v uint32) int {
	c := v
	c = ((c >> 1) & 0x55555555) + (c & 0x55555555)
	c = ((c >> 2) & 0x33333333) + (c & 0x33333333)
	c = ((c >> 4) & 0x0F0F0F0F) + (c & 0x0F0F0F0F)
	c = ((c >> 8) & 0x00FF00FF) + (c & 0x00FF00FF)
	c = ((c >> 16) & 0x0000FFFF) + (c & 0x0000FFFF)
	return int(c)
}

// computeChecksum computes the 30-bit transmitted word for source, whose
// bits 31:30 hold D29*/D30* (the previous word's last two parity bits),
// bits 29:6 the 24 source data bits, and bits 5:0 unused. nib marks words
// 2 and 10 of a subframe, whose bits 23/24 are solved to preserve parity
// with bits 29/30 forced to zero (ICD-GPS-200's non-information-bearing
// bits).
func computeChecksum(source uint32, nib bool) uint32 {
	d := source & 0x3FFFFFC0
	d29 := (source >> 31) & 0x1
	d30 := (source >> 30) & 0x1

	if nib {
		if (int(d30)+countBits(bmask[4]&d))%2 != 0 {
			d ^= 0x1 << 6
		}
		if (int(d29)+countBits(bmask[5]&d))%2 != 0 {
			d ^= 0x1 << 7
		}
	}

	D := d
	if d30 != 0 {
		D ^= 0x3FFFFFC0
	}

	D |= uint32((int(d29)+countBits(bmask[0]&d))%2) << 5
	D |= uint32((int(d30)+countBits(bmask[1]&d))%2) << 4
	D |= uint32((int(d29)+countBits(bmask[2]&d))%2) << 3
	D |= uint32((int(d30)+countBits(bmask[3]&d))%2) << 2
	D |= uint32((int(d30)+countBits(bmask[4]&d))%2) << 1
	D |= uint32((int(d29) + countBits(bmask[5]&d)) % 2)

	D &= 0x3FFFFFFF
	D |= source & 0xC0000000
	return D
}
