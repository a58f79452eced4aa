package motion_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/motion"
)

func writeMotionFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "motion.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesRows(t *testing.T) {
	assert := assert.New(t)
	path := writeMotionFile(t, "0.0,-2694556.2,-4297726.5,3854479.5\n0.1,-2694556.1,-4297726.4,3854479.6\n")

	points, err := motion.Load(path)
	assert.NoError(err)
	assert.Len(points, 2)
	assert.Equal(0.0, points[0].T)
	assert.Equal(-2694556.2, points[0].Xyz.X)
	assert.Equal(0.1, points[1].T)
}

func TestLoadStopsAtMalformedRow(t *testing.T) {
	assert := assert.New(t)
	path := writeMotionFile(t, "0.0,1.0,2.0,3.0\nnot,a,valid,row\n0.2,4.0,5.0,6.0\n")

	points, err := motion.Load(path)
	assert.NoError(err)
	assert.Len(points, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := motion.Load("/nonexistent/path/to/motion.csv")
	assert.Error(t, err)
}
