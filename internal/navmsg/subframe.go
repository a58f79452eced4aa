package navmsg

import (
	"math"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/almanac"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/ephemeris"
)

// WordsPerSubframe is the number of 30-bit words in one subframe.
const WordsPerSubframe = 10

// PageSlots is the number of distinct 10-word pages this store carries:
// subframes 1-3 plus 25 pages each of subframes 4 and 5.
const PageSlots = 3 + 2*25

// pow2 scale-factor divisors, reproduced as literal constants matching
// IS-GPS-200's fixed-point field widths (see original_source/gps.h).
const (
	pow2M5  = 0.03125
	pow2M11 = 4.882812500000000e-4
	pow2M12 = 2.441406250000000e-4
	pow2M19 = 1.907348632812500e-6
	pow2M20 = 9.536743164062500e-7
	pow2M21 = 4.768371582031250e-7
	pow2M23 = 1.192092895507810e-7
	pow2M24 = 5.960464477539063e-8
	pow2M27 = 7.450580596923828e-9
	pow2M29 = 1.862645149230957e-9
	pow2M30 = 9.313225746154785e-10
	pow2M31 = 4.656612873077393e-10
	pow2M33 = 1.164153218269348e-10
	pow2M38 = 3.637978807091713e-12
	pow2M43 = 1.136868377216160e-13
	pow2M50 = 8.881784197001252e-16
	pow2M55 = 2.775557561562891e-17
	pow212  = 4096.0

	emptyWord = 0xaaaaaaaa
)

// sbf4SvId and sbf5SvId give the SV-ID field (IS-GPS-200L table 20-V)
// for each of the 25 dummy pages of subframes 4 and 5 before almanac
// data is filled in over them.
var sbf4SvId = [25]uint32{
	57, 0, 0, 0, 0, 57, 0, 0, 0, 0,
	57, 62, 52, 53, 54, 57, 55, 56, 58,
	59, 57, 60, 61, 62, 63,
}

var sbf5SvId = [25]uint32{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 51,
}

// Pages is the raw (pre-TOW, pre-checksum) content of every subframe
// page: subframes 1-3 followed by the 25 pages each of subframes 4/5.
// Each word has its data bits already placed at bit positions 29:6;
// bits 31:30 (previous-word parity) and 5:0 (parity) are filled in by
// the per-transmission pass in Stream.
type Pages [PageSlots][WordsPerSubframe]uint32

// BuildPages assembles the fixed subframe content for one ephemeris set,
// almanac store and iono/UTC parameters, following eph2sbf field-for-field.
func BuildPages(eph ephemeris.Eph, ionoUtc ephemeris.IonoUtc, alm *almanac.Store) Pages {
	var sbf Pages

	const ura, dataId = uint32(0), uint32(1)

	toe := uint32(eph.Toe.Sec / 16.0)
	toc := uint32(eph.Toc.Sec / 16.0)
	iode := uint32(eph.Iode)
	iodc := uint32(eph.Iodc)
	deltan := int32(eph.Deltan / pow2M43 / math.Pi)
	cuc := int32(eph.Cuc / pow2M29)
	cus := int32(eph.Cus / pow2M29)
	cic := int32(eph.Cic / pow2M29)
	cis := int32(eph.Cis / pow2M29)
	crc := int32(eph.Crc / pow2M5)
	crs := int32(eph.Crs / pow2M5)
	ecc := uint32(eph.Ecc / pow2M33)
	sqrta := uint32(eph.Sqrta / pow2M19)
	m0 := int32(eph.M0 / pow2M31 / math.Pi)
	omega0 := int32(eph.Omg0 / pow2M31 / math.Pi)
	inc0 := int32(eph.Inc0 / pow2M31 / math.Pi)
	aop := int32(eph.Aop / pow2M31 / math.Pi)
	omegadot := int32(eph.Omgdot / pow2M43 / math.Pi)
	idot := int32(eph.Idot / pow2M43 / math.Pi)
	af0 := int32(eph.Af0 / pow2M31)
	af1 := int32(eph.Af1 / pow2M43)
	af2 := int32(eph.Af2 / pow2M55)
	tgd := int32(eph.Tgd / pow2M31)

	alpha0 := int32(math.Round(ionoUtc.Alpha0 / pow2M30))
	alpha1 := int32(math.Round(ionoUtc.Alpha1 / pow2M27))
	alpha2 := int32(math.Round(ionoUtc.Alpha2 / pow2M24))
	alpha3 := int32(math.Round(ionoUtc.Alpha3 / pow2M24))
	beta0 := int32(math.Round(ionoUtc.Beta0 / 2048.0))
	beta1 := int32(math.Round(ionoUtc.Beta1 / 16384.0))
	beta2 := int32(math.Round(ionoUtc.Beta2 / 65536.0))
	beta3 := int32(math.Round(ionoUtc.Beta3 / 65536.0))
	a0 := int32(math.Round(ionoUtc.A0 / pow2M30))
	a1 := int32(math.Round(ionoUtc.A1 / pow2M50))
	dtls := int32(ionoUtc.Dtls)
	tot := uint32(ionoUtc.Tot / 4096)
	wnt := uint32(ionoUtc.Wnt % 256)

	// Scheduled leap second event: no future event is modeled, so page 18
	// carries the same future-insertion placeholder the original ships.
	const wnlsf, dn, dtlsf = uint32(1929 % 256), uint32(7), int32(18)

	w := func(u32 uint32) uint32 { return u32 }

	// The transmission week number is left zero here: Stream.Advance ORs
	// in the real transmission-time wn on every 30-second frame, and OR
	// is not idempotent across differing values -- baking a non-zero wn
	// in at build time would corrupt the field whenever eph.Toc.Week and
	// the transmission week straddle a 1024-week rollover.
	const wn = uint32(0)

	// Subframe 1
	sbf[0][0] = 0x8B0000 << 6
	sbf[0][1] = 0x1 << 8
	sbf[0][2] = (wn&0x3FF)<<20 | (ura << 14) | (((iodc >> 8) & 0x3) << 6)
	sbf[0][3] = 0
	sbf[0][4] = 0
	sbf[0][5] = 0
	sbf[0][6] = w(uint32(tgd)&0xFF) << 6
	sbf[0][7] = ((iodc & 0xFF) << 22) | ((toc & 0xFFFF) << 6)
	sbf[0][8] = (w(uint32(af2))&0xFF)<<22 | (w(uint32(af1))&0xFFFF)<<6
	sbf[0][9] = (w(uint32(af0)) & 0x3FFFFF) << 8

	// Subframe 2
	sbf[1][0] = 0x8B0000 << 6
	sbf[1][1] = 0x2 << 8
	sbf[1][2] = (iode&0xFF)<<22 | (w(uint32(crs))&0xFFFF)<<6
	sbf[1][3] = (w(uint32(deltan))&0xFFFF)<<14 | ((w(uint32(m0))>>24)&0xFF)<<6
	sbf[1][4] = (w(uint32(m0)) & 0xFFFFFF) << 6
	sbf[1][5] = (w(uint32(cuc))&0xFFFF)<<14 | ((ecc>>24)&0xFF)<<6
	sbf[1][6] = (ecc & 0xFFFFFF) << 6
	sbf[1][7] = (w(uint32(cus))&0xFFFF)<<14 | ((sqrta>>24)&0xFF)<<6
	sbf[1][8] = (sqrta & 0xFFFFFF) << 6
	sbf[1][9] = (toe & 0xFFFF) << 14

	// Subframe 3
	sbf[2][0] = 0x8B0000 << 6
	sbf[2][1] = 0x3 << 8
	sbf[2][2] = (w(uint32(cic))&0xFFFF)<<14 | ((w(uint32(omega0))>>24)&0xFF)<<6
	sbf[2][3] = (w(uint32(omega0)) & 0xFFFFFF) << 6
	sbf[2][4] = (w(uint32(cis))&0xFFFF)<<14 | ((w(uint32(inc0))>>24)&0xFF)<<6
	sbf[2][5] = (w(uint32(inc0)) & 0xFFFFFF) << 6
	sbf[2][6] = (w(uint32(crc))&0xFFFF)<<14 | ((w(uint32(aop))>>24)&0xFF)<<6
	sbf[2][7] = (w(uint32(aop)) & 0xFFFFFF) << 6
	sbf[2][8] = (w(uint32(omegadot)) & 0xFFFFFF) << 6
	sbf[2][9] = (iode&0xFF)<<22 | (w(uint32(idot))&0x3FFF)<<8

	// Empty all 25 pages of subframes 4 and 5 first; almanac/iono pages
	// below overwrite the ones that have data.
	for i := 0; i < 25; i++ {
		sf4 := &sbf[3+i*2]
		sf4[0] = 0x8B0000 << 6
		sf4[1] = 0x4 << 8
		sf4[2] = dataId<<28 | sbf4SvId[i]<<22 | (emptyWord&0xFFFF)<<6
		sf4[3] = (emptyWord & 0xFFFFFF) << 6
		sf4[4] = (emptyWord & 0xFFFFFF) << 6
		sf4[5] = (emptyWord & 0xFFFFFF) << 6
		sf4[6] = (emptyWord & 0xFFFFFF) << 6
		sf4[7] = (emptyWord & 0xFFFFFF) << 6
		sf4[8] = (emptyWord & 0xFFFFFF) << 6
		sf4[9] = (emptyWord & 0x3FFFFF) << 8

		sf5 := &sbf[4+i*2]
		sf5[0] = 0x8B0000 << 6
		sf5[1] = 0x5 << 8
		sf5[2] = dataId<<28 | sbf5SvId[i]<<22 | (emptyWord&0xFFFF)<<6
		sf5[3] = (emptyWord & 0xFFFFFF) << 6
		sf5[4] = (emptyWord & 0xFFFFFF) << 6
		sf5[5] = (emptyWord & 0xFFFFFF) << 6
		sf5[6] = (emptyWord & 0xFFFFFF) << 6
		sf5[7] = (emptyWord & 0xFFFFFF) << 6
		sf5[8] = (emptyWord & 0xFFFFFF) << 6
		sf5[9] = (emptyWord & 0x3FFFFF) << 8
	}

	almanacWord := func(a almanac.Sv) (ecc, toaWord, sqrta uint32, deltaI, omegadot, omega0, aop, m0, af0, af1 int32) {
		ecc = uint32(a.Ecc / pow2M21)
		toaWord = uint32(a.Toa.Sec / pow212)
		deltaI = int32((a.DeltaI/math.Pi - 0.3) / pow2M19)
		omegadot = int32(a.OmegaDot / math.Pi / pow2M38)
		sqrta = uint32(a.Sqrta / pow2M11)
		omega0 = int32(a.Omega0 / math.Pi / pow2M23)
		aop = int32(a.Aop / math.Pi / pow2M23)
		m0 = int32(a.M0 / math.Pi / pow2M23)
		af0 = int32(a.Af0 / pow2M20)
		af1 = int32(a.Af1 / pow2M38)
		return
	}

	// Subframe 4 pages 2-5 (PRN 25-28) and 7-10 (PRN 29-32).
	if alm != nil {
		for sv := 24; sv < almanac.MaxSat; sv++ {
			var i int
			switch {
			case sv <= 27:
				i = sv - 23
			default:
				i = sv - 22
			}
			a := alm.Sv[sv]
			if !a.Valid {
				continue
			}
			svId := uint32(sv + 1)
			ecc, toaWord, sqrta, deltaI, omegadot, omega0, aop, m0, af0, af1 := almanacWord(a)

			p := &sbf[3+i*2]
			p[0] = 0x8B0000 << 6
			p[1] = 0x4 << 8
			p[2] = dataId<<28 | svId<<22 | (ecc&0xFFFF)<<6
			p[3] = (toaWord&0xFF)<<22 | (w(uint32(deltaI))&0xFFFF)<<6
			p[4] = (w(uint32(omegadot)) & 0xFFFF) << 14
			p[5] = (sqrta & 0xFFFFFF) << 6
			p[6] = (w(uint32(omega0)) & 0xFFFFFF) << 6
			p[7] = (w(uint32(aop)) & 0xFFFFFF) << 6
			p[8] = (w(uint32(m0)) & 0xFFFFFF) << 6
			p[9] = (w(uint32(af0))&0x7F8)<<19 | (w(uint32(af1))&0x7FF)<<11 | (w(uint32(af0))&0x7)<<8
		}

		// Subframe 5 pages 1-24 (PRN 1-24).
		for sv := 0; sv < 24; sv++ {
			a := alm.Sv[sv]
			if !a.Valid {
				continue
			}
			svId := uint32(sv + 1)
			ecc, toaWord, sqrta, deltaI, omegadot, omega0, aop, m0, af0, af1 := almanacWord(a)

			p := &sbf[4+sv*2]
			p[0] = 0x8B0000 << 6
			p[1] = 0x5 << 8
			p[2] = dataId<<28 | svId<<22 | (ecc&0xFFFF)<<6
			p[3] = (toaWord&0xFF)<<22 | (w(uint32(deltaI))&0xFFFF)<<6
			p[4] = (w(uint32(omegadot)) & 0xFFFF) << 14
			p[5] = (sqrta & 0xFFFFFF) << 6
			p[6] = (w(uint32(omega0)) & 0xFFFFFF) << 6
			p[7] = (w(uint32(aop)) & 0xFFFFFF) << 6
			p[8] = (w(uint32(m0)) & 0xFFFFFF) << 6
			p[9] = (w(uint32(af0))&0x7F8)<<19 | (w(uint32(af1))&0x7FF)<<11 | (w(uint32(af0))&0x7)<<8
		}
	}

	// Subframe 4 page 18: ionospheric and UTC data.
	if ionoUtc.Valid {
		p := &sbf[3+17*2]
		p[0] = 0x8B0000 << 6
		p[1] = 0x4 << 8
		p[2] = dataId<<28 | sbf4SvId[17]<<22 | (w(uint32(alpha0))&0xFF)<<14 | (w(uint32(alpha1))&0xFF)<<6
		p[3] = (w(uint32(alpha2))&0xFF)<<22 | (w(uint32(alpha3))&0xFF)<<14 | (w(uint32(beta0))&0xFF)<<6
		p[4] = (w(uint32(beta1))&0xFF)<<22 | (w(uint32(beta2))&0xFF)<<14 | (w(uint32(beta3))&0xFF)<<6
		p[5] = (w(uint32(a1)) & 0xFFFFFF) << 6
		p[6] = ((w(uint32(a0)) >> 8) & 0xFFFFFF) << 6
		p[7] = (w(uint32(a0))&0xFF)<<22 | (tot&0xFF)<<14 | (wnt&0xFF)<<6
		p[8] = (w(uint32(dtls))&0xFF)<<22 | (wnlsf&0xFF)<<14 | (dn&0xFF)<<6
		p[9] = (w(uint32(dtlsf)) & 0xFF) << 22
	}

	// Subframe 4 page 25: SV health for PRN 25-32 -- zeroed, matching the
	// original (receivers under test here never decode health bits).
	p425 := &sbf[3+24*2]
	p425[0] = 0x8B0000 << 6
	p425[1] = 0x4 << 8
	p425[2] = dataId<<28 | sbf4SvId[24]<<22
	for i := 3; i < 10; i++ {
		p425[i] = 0
	}

	// Subframe 5 page 25: TOA/week plus SV health for PRN 1-24.
	wna := uint32(eph.Toe.Week % 256)
	toaWord := uint32(eph.Toe.Sec / 4096.0)
	if alm != nil {
		for sv := 0; sv < almanac.MaxSat; sv++ {
			if alm.Sv[sv].Valid {
				wna = uint32(alm.Sv[sv].Toa.Week % 256)
				toaWord = uint32(alm.Sv[sv].Toa.Sec / 4096.0)
				break
			}
		}
	}
	p525 := &sbf[4+24*2]
	p525[0] = 0x8B0000 << 6
	p525[1] = 0x5 << 8
	p525[2] = dataId<<28 | sbf5SvId[24]<<22 | (toaWord&0xFF)<<14 | (wna&0xFF)<<6
	for i := 3; i < 10; i++ {
		p525[i] = 0
	}

	return sbf
}
