package gnsstime_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
)

func TestCalendarRoundTrip(t *testing.T) {
	assert := assert.New(t)
	cases := []gnsstime.Calendar{
		{Year: 1980, Month: 1, Day: 6, Hour: 0, Minute: 0, Sec: 0},
		{Year: 2004, Month: 2, Day: 29, Hour: 2, Minute: 0, Sec: 30.0},
		{Year: 2024, Month: 12, Day: 31, Hour: 23, Minute: 59, Sec: 59.999},
		{Year: 2038, Month: 6, Day: 15, Hour: 11, Minute: 22, Sec: 33.5},
	}
	for _, c := range cases {
		g := gnsstime.FromCalendar(c)
		back := g.ToCalendar()
		assert.Equal(c.Year, back.Year)
		assert.Equal(c.Month, back.Month)
		assert.Equal(c.Day, back.Day)
		assert.Equal(c.Hour, back.Hour)
		assert.Equal(c.Minute, back.Minute)
		assert.Less(math.Abs(c.Sec-back.Sec), 1e-6)
	}
}

func TestGpsTimeWeekRollover(t *testing.T) {
	assert := assert.New(t)
	g := gnsstime.GpsTime{Week: 2266, Sec: 604800.0 - 0.001}
	next := g.Add(0.002)
	assert.Equal(2267, next.Week)
	assert.Less(next.Sec, 0.01)

	prev := g.Add(-604800.0 - 0.5)
	assert.Equal(2265, prev.Week)
}

func TestGpsTimeSub(t *testing.T) {
	assert := assert.New(t)
	g0 := gnsstime.GpsTime{Week: 2000, Sec: 100.0}
	g1 := gnsstime.GpsTime{Week: 2001, Sec: 50.0}
	assert.InDelta(604750.0, g1.Sub(g0), 1e-9)
	assert.InDelta(-604750.0, g0.Sub(g1), 1e-9)
}

func TestEcefLlhRoundTrip(t *testing.T) {
	assert := assert.New(t)
	lats := []float64{-89.9, -45.0, -1.0, 0.0, 1.0, 45.0, 89.9}
	lons := []float64{-179.0, -90.0, 0.0, 90.0, 179.9}
	heights := []float64{-500.0, 0.0, 1000.0, 10000.0}

	for _, lat := range lats {
		for _, lon := range lons {
			for _, h := range heights {
				llh := gnsstime.Llh{
					Lat:    lat * math.Pi / 180.0,
					Lon:    lon * math.Pi / 180.0,
					Height: h,
				}
				xyz := llh.ToEcef()
				back := xyz.ToLlh()
				assert.Less(math.Abs(llh.Lat-back.Lat)*6378137.0, 1e-3)
				assert.Less(math.Abs(llh.Lon-back.Lon)*6378137.0, 1e-3)
				assert.Less(math.Abs(llh.Height-back.Height), 1e-3)
			}
		}
	}
}

func TestAzelNormalizedAndOverhead(t *testing.T) {
	assert := assert.New(t)
	llh := gnsstime.Llh{Lat: 0.5, Lon: -1.2, Height: 100}
	t_ := gnsstime.LtcMatrix(llh)

	overhead := gnsstime.Neu{N: 0, E: 0, U: 1000}
	azel := overhead.ToAzel()
	assert.InDelta(math.Pi/2, azel.El, 1e-9)

	south := gnsstime.Neu{N: -1, E: 0, U: 0}
	azelSouth := south.ToAzel()
	assert.GreaterOrEqual(azelSouth.Az, 0.0)
	assert.Less(azelSouth.Az, 2*math.Pi)
	assert.InDelta(math.Pi, azelSouth.Az, 1e-9)

	_ = t_
}

func TestKeplerEConverges(t *testing.T) {
	assert := assert.New(t)
	e := 0.01
	m := 1.2345
	ek := gnsstime.KeplerE(m, e, 1e-14)
	residual := ek - e*math.Sin(ek) - m
	assert.Less(math.Abs(residual), 1e-12)
}
