package config_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/config"
)

func TestLoadParsesYamlOverDefaults(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(os.WriteFile(path, []byte(`
nav_file: brdc.rnx
duration_sec: 60
sdr_type: hackrf
location:
  lat: 37.7
  lon: -122.4
  height: 30.0
`), 0644))

	opt, err := config.Load(path)
	require.NoError(err)
	assert.Equal("brdc.rnx", opt.NavFile)
	assert.Equal(60, opt.DurationSec)
	assert.Equal(config.SdrHackRF, opt.SdrType)
	assert.Equal(37.7, opt.Location.Lat)
	assert.True(opt.IonosphereEnable, "default ionosphere_enable should survive unless overridden")
}

func TestBindFlagsOverridesLoadedOptions(t *testing.T) {
	opt := config.Default()
	opt.NavFile = "brdc.rnx"

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config.BindFlags(fs, &opt)
	require.NoError(t, fs.Parse([]string{"-duration", "120", "-sdr", "pluto"}))

	assert.Equal(t, 120, opt.DurationSec)
	assert.Equal(t, config.SdrPluto, opt.SdrType)
	assert.Equal(t, "brdc.rnx", opt.NavFile)
}

func TestValidateRejectsBadCombinations(t *testing.T) {
	opt := config.Default()
	assert.Error(t, opt.Validate(), "missing nav_file should fail")

	opt.NavFile = "brdc.rnx"
	assert.NoError(t, opt.Validate())

	opt.MotionFile = "motion.csv"
	opt.Target.Enabled = true
	assert.Error(t, opt.Validate(), "motion file and target are mutually exclusive")
}
