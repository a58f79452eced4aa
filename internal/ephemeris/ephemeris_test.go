package ephemeris_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/ephemeris"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
)

// A single-satellite, single-set RINEX v2 navigation file, synthesized
// from real GPS broadcast ephemeris field widths.
const rinexV2Nav = `     2              NAVIGATION DATA                         RINEX VERSION / TYPE
TESTGEN             TESTPROVIDER        20240101 000000     PGM / RUN BY / DATE
    0.1118D-07  0.7451D-08 -0.5960D-07 -0.1192D-06          ION ALPHA
    0.1167D+06 -0.6554D+05 -0.1966D+06  0.1311D+06          ION BETA
    0.186264514923D-08 0.710542735760D-14    61440     2138 DELTA-UTC: A0,A1,T,W
    18                                                      LEAP SECONDS
                                                            END OF HEADER
 1 20 12 29  0  0  0.0 0.123456789012D-04 0.227373675443D-11 0.000000000000D+00
    0.500000000000D+02 0.125312500000D+02 0.456468660000D-08 0.112233445566D+01
    0.987654321000D-06 0.112233445500D-01 0.987431430817D-05 0.515365322876D+04
    0.172800000000D+06 0.223517417908D-06 0.219412345123D+01 0.335276126862D-07
    0.958765432100D+00 0.231562500000D+03 0.212345678901D+01-0.801122334455D-08
   -0.123456789012D-09 0.100000000000D+01 0.213800000000D+04 0.000000000000D+00
    0.200000000000D+01 0.000000000000D+00-0.186264514923D-08 0.000000000000D+00
    0.172806000000D+06 0.400000000000D+01
`

func writeNavFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "brdc.nav")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadRinexV2(t *testing.T) {
	assert := assert.New(t)
	path := writeNavFile(t, rinexV2Nav)

	store, err := ephemeris.Load(path)
	require.NoError(t, err)

	assert.Equal(1, store.Sets)
	assert.True(store.IonoUtc.Valid)
	assert.Equal(18, store.IonoUtc.Dtls)

	e := store.Eph[0][0]
	assert.True(e.Valid)
	assert.Equal(2138, e.Toe.Week)
	assert.InDelta(172800.0, e.Toe.Sec, 1e-9)
	assert.InDelta(12.53125, e.Crs, 1e-9)
	assert.Greater(e.A, 0.0)
	assert.Greater(e.N, 0.0)
}

func TestSelectSet(t *testing.T) {
	assert := assert.New(t)
	path := writeNavFile(t, rinexV2Nav)

	store, err := ephemeris.Load(path)
	require.NoError(t, err)

	g := gnsstime.GpsTime{Week: 2138, Sec: 172800.0}
	assert.Equal(0, store.SelectSet(g))

	farAway := gnsstime.GpsTime{Week: 2138, Sec: 172800.0 + 7200.0}
	assert.Equal(-1, store.SelectSet(farAway))
}

func TestOverwriteTimeShiftsTocAndToe(t *testing.T) {
	assert := assert.New(t)
	path := writeNavFile(t, rinexV2Nav)

	store, err := ephemeris.Load(path)
	require.NoError(t, err)

	gmin := store.Eph[0][0].Toc
	origToe := store.Eph[0][0].Toe

	g0 := gnsstime.GpsTime{Week: gmin.Week + 1, Sec: 10000.0}
	store.OverwriteTime(g0)

	gtmp := gnsstime.GpsTime{Week: g0.Week, Sec: 7200.0}
	dsec := gtmp.Sub(gmin)

	assert.InDelta(gmin.Add(dsec).Sub(gnsstime.GpsTime{}), store.Eph[0][0].Toc.Sub(gnsstime.GpsTime{}), 1e-6)
	assert.InDelta(origToe.Add(dsec).Sub(gnsstime.GpsTime{}), store.Eph[0][0].Toe.Sub(gnsstime.GpsTime{}), 1e-6)
	assert.Equal(gtmp.Week, store.IonoUtc.Wnt)
	assert.Equal(int(gtmp.Sec), store.IonoUtc.Tot)
}

func TestOverwriteTimeNoOpWhenNoValidEphemeris(t *testing.T) {
	store := &ephemeris.Store{Sets: 1}
	store.OverwriteTime(gnsstime.GpsTime{Week: 2300, Sec: 0})
	assert.Equal(t, 0, store.IonoUtc.Wnt)
}
