package almanac_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/almanac"
)

// Header count is one more than the number of SV blocks that follow,
// matching almanac_read_file's "n -= 1" adjustment before its read loop.
const semFile = `3
Test Almanac
2138
61440
1
23
0
0.0123456
-0.0012345
0.123456789
5153.650
0.456789012
-0.567890123
0.678901234
0.0000012
0.0
0
0
2
45
0
0.0098765
0.0023456
-0.234567890
5153.700
-0.345678901
0.456789012
-0.567890123
-0.0000034
0.0
0
0
`

func writeSem(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "almanac.sem")
	require.NoError(t, os.WriteFile(p, []byte(semFile), 0o644))
	return p
}

func TestLoadSemAlmanac(t *testing.T) {
	assert := assert.New(t)
	path := writeSem(t)

	store, err := almanac.Load(path)
	require.NoError(t, err)
	assert.True(store.Valid)

	sv1 := store.Sv[0]
	assert.True(sv1.Valid)
	assert.Equal(23, sv1.Svn)
	assert.Equal(2138&0xFF, sv1.Week8)
}

func TestDeltaIAndScaling(t *testing.T) {
	assert := assert.New(t)
	path := writeSem(t)

	store, err := almanac.Load(path)
	require.NoError(t, err)

	sv1 := store.Sv[0]
	assert.InDelta((0.30-0.0012345)*math.Pi, sv1.DeltaI, 1e-9)
	assert.InDelta(0.123456789*math.Pi, sv1.OmegaDot, 1e-9)
	assert.InDelta(0.456789012*math.Pi, sv1.Omega0, 1e-9)

	sv2 := store.Sv[1]
	assert.True(sv2.Valid)
	assert.Equal(45, sv2.Svn)
}

func TestMissingFileYieldsInvalidStore(t *testing.T) {
	assert := assert.New(t)
	store, err := almanac.Load(filepath.Join(t.TempDir(), "nope.sem"))
	assert.Error(err)
	assert.False(store.Valid)
}

// Out-of-range SEM field values (sentinel/placeholder data does occur in
// real almanac files) must clamp to the transmitted page's bit widths
// rather than flow through and corrupt the subframe 4/5 encoding.
const semFileOutOfRangeFields = `2
Test Almanac
2138
61440
1
23
99
0.0123456
-0.0012345
0.123456789
5153.650
0.456789012
-0.567890123
0.678901234
0.0000012
0.0
200
999
`

func TestOutOfRangeFieldsClampToBitWidth(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "almanac.sem")
	require.NoError(t, os.WriteFile(path, []byte(semFileOutOfRangeFields), 0o644))

	store, err := almanac.Load(path)
	require.NoError(t, err)

	sv1 := store.Sv[0]
	assert.True(sv1.Valid)
	assert.Equal(15, sv1.Ura)
	assert.Equal(63, sv1.Health)
	assert.Equal(15, sv1.ConfigCode)
}
