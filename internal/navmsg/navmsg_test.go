package navmsg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/almanac"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/ephemeris"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/navmsg"
)

func sampleEph() ephemeris.Eph {
	var e ephemeris.Eph
	e.Toc = gnsstime.GpsTime{Week: 2138, Sec: 233472}
	e.Toe = gnsstime.GpsTime{Week: 2138, Sec: 233472}
	e.Sva = 0
	e.Iodc = 74
	e.Iode = 74
	e.Sqrta = 5153.733
	e.Ecc = 0.0123
	e.M0 = 1.2
	e.Omg0 = -2.1
	e.Inc0 = 0.95
	e.Aop = 0.5
	e.Omgdot = -8e-9
	e.Idot = 1e-10
	e.Deltan = 4.3e-9
	e.Cuc = 1e-6
	e.Cus = 9e-6
	e.Cic = -2e-7
	e.Cis = 1e-7
	e.Crc = 200.0
	e.Crs = -10.0
	e.Af0 = 1e-4
	e.Af1 = 1e-11
	e.Af2 = 0
	e.Tgd = -1e-8
	return e
}

func TestBuildPagesWordShapeAndPreamble(t *testing.T) {
	assert := assert.New(t)
	eph := sampleEph()
	var ionoUtc ephemeris.IonoUtc
	var alm almanac.Store

	pages := navmsg.BuildPages(eph, ionoUtc, &alm)

	for i := 0; i < navmsg.PageSlots; i++ {
		assert.Equal(uint32(0x8B), pages[i][0]>>22&0xFF, "page %d preamble", i)
	}

	assert.Equal(uint32(0x1), pages[0][1]>>8&0x7, "subframe 1 id")
	assert.Equal(uint32(0x2), pages[1][1]>>8&0x7, "subframe 2 id")
	assert.Equal(uint32(0x3), pages[2][1]>>8&0x7, "subframe 3 id")
	assert.Equal(uint32(0x4), pages[3][1]>>8&0x7, "first subframe 4 page id")
	assert.Equal(uint32(0x5), pages[4][1]>>8&0x7, "first subframe 5 page id")
}

func TestStreamParityChainsAndTowAdvances(t *testing.T) {
	assert := assert.New(t)
	eph := sampleEph()
	var ionoUtc ephemeris.IonoUtc
	var alm almanac.Store

	pages := navmsg.BuildPages(eph, ionoUtc, &alm)
	s := navmsg.NewStream(pages)

	g := gnsstime.GpsTime{Week: 2138, Sec: 233472}
	dwrd := make([]uint32, navmsg.DwrdLen)
	s.Advance(g, dwrd, true)

	assert.Equal(uint32(0), dwrd[0]>>30&0x3, "bridging subframe's first word has no prior parity history")

	tow1 := dwrd[1*navmsg.WordsPerSubframe+1] >> 13 & 0x1FFFF

	last := make([]uint32, navmsg.WordsPerSubframe)
	copy(last, dwrd[5*navmsg.WordsPerSubframe:6*navmsg.WordsPerSubframe])

	s.Advance(g.Add(30), dwrd, false)
	tow2 := dwrd[1*navmsg.WordsPerSubframe+1] >> 13 & 0x1FFFF

	assert.NotEqual(tow1, tow2, "handover word TOW count should advance between 30s frames")
	assert.Equal(last, dwrd[0:navmsg.WordsPerSubframe],
		"second call's bridging words should be the first call's final subframe")
}

func TestAdvanceWeekRolloverDoesNotCorruptTransmittedWeek(t *testing.T) {
	assert := assert.New(t)

	eph := sampleEph()
	eph.Toc.Week = 1023
	var ionoUtc ephemeris.IonoUtc
	var alm almanac.Store

	pages := navmsg.BuildPages(eph, ionoUtc, &alm)
	s := navmsg.NewStream(pages)

	dwrd := make([]uint32, navmsg.DwrdLen)
	s.Advance(gnsstime.GpsTime{Week: 1024, Sec: 0}, dwrd, true)

	wn := dwrd[1*navmsg.WordsPerSubframe+2] >> 20 & 0x3FF
	assert.Equal(uint32(0), wn,
		"BuildPages must leave the week field at zero so Advance's OR is the sole injection point")
}

func TestStreamCyclesSubframe45Pages(t *testing.T) {
	assert := assert.New(t)
	eph := sampleEph()
	var ionoUtc ephemeris.IonoUtc
	var alm almanac.Store
	alm.Valid = true
	alm.Sv[0].Valid = true
	alm.Sv[0].Toa = gnsstime.GpsTime{Week: 2138, Sec: 233472}

	pages := navmsg.BuildPages(eph, ionoUtc, &alm)
	s := navmsg.NewStream(pages)

	g := gnsstime.GpsTime{Week: 2138, Sec: 0}
	dwrd1 := make([]uint32, navmsg.DwrdLen)
	s.Advance(g, dwrd1, true)
	dwrd2 := make([]uint32, navmsg.DwrdLen)
	s.Advance(g.Add(30), dwrd2, false)

	sf4Word3_1 := dwrd1[4*navmsg.WordsPerSubframe+2]
	sf4Word3_2 := dwrd2[4*navmsg.WordsPerSubframe+2]
	assert.NotEqual(sf4Word3_1>>22&0xFF, sf4Word3_2>>22&0xFF,
		"consecutive frames should advance to the next subframe 4 almanac page")
}
