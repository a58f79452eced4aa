// Package config loads and validates the simulator's run options: a
// YAML file for the full option set, with flag overrides for the ones
// most commonly tweaked per invocation.
//
// Grounded on original_source/gps-sim.h's simulator_t field set for the
// option inventory (location/target, nav/motion file, SDR selection,
// ionosphere/almanac toggles, duration, gain); the YAML-file-plus-flag
// idiom is grounded on FengXuebin-gnssgo/app/rnx2rtkp's "-k file input
// options from configuration file... command line options precede
// options in the configuration file" precedence rule.
package config

import (
	"flag"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// SdrType selects the output backend.
type SdrType string

const (
	SdrNone   SdrType = "none"
	SdrFile   SdrType = "file"
	SdrHackRF SdrType = "hackrf"
	SdrPluto  SdrType = "pluto"
	SdrSerial SdrType = "serial"
)

// Location is a static simulator location (latitude/longitude in
// degrees, height in meters).
type Location struct {
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
	Height float64 `yaml:"height"`
}

// Target describes a position offset by bearing and distance from
// Location; when Enabled and no motion file is given, it replaces
// Location as the static receiver position. Only BearingDeg, DistanceM
// and HeightM are read; the speed fields are not used.
type Target struct {
	BearingDeg float64 `yaml:"bearing_deg"`
	DistanceM  float64 `yaml:"distance_m"`
	HeightM    float64 `yaml:"height_m"`
	VelocityMS float64 `yaml:"velocity_ms"`
	SpeedMS    float64 `yaml:"speed_ms"`
	VerticalMS float64 `yaml:"vertical_speed_ms"`
	Enabled    bool    `yaml:"enabled"`
}

// Options is the full set of simulator run parameters.
type Options struct {
	NavFile      string   `yaml:"nav_file"`
	MotionFile   string   `yaml:"motion_file"`
	StationID    string   `yaml:"station_id"`
	UseRinex3    bool     `yaml:"use_rinex3"`
	AlmanacFile  string   `yaml:"almanac_file"`
	AlmanacEnable bool    `yaml:"almanac_enable"`
	IonosphereEnable bool `yaml:"ionosphere_enable"`
	TimeOverwrite bool    `yaml:"time_overwrite"`
	StartTime    string   `yaml:"start_time"` // RFC3339, used only with time_overwrite; otherwise the run starts at the current time

	Location Location `yaml:"location"`
	Target   Target   `yaml:"target"`

	DurationSec int `yaml:"duration_sec"`

	SdrType    SdrType `yaml:"sdr_type"`
	SdrName    string  `yaml:"sdr_name"`
	TxGain     int     `yaml:"tx_gain"`
	SampleBits int     `yaml:"sample_bits"` // 8 or 16
	PlutoURI   string  `yaml:"pluto_uri"`
	PlutoHost  string  `yaml:"pluto_hostname"`
	SerialPort string  `yaml:"serial_port"`
	SerialBaud int     `yaml:"serial_baud"`
	EnableTxAmp bool   `yaml:"enable_tx_amp"`

	ElevationMaskDeg float64 `yaml:"elevation_mask_deg"`
	TraceLevel       int     `yaml:"trace_level"`

	MetricsAddr     string `yaml:"metrics_addr"`
	PushgatewayURL  string `yaml:"pushgateway_url"`
	InfluxURL       string `yaml:"influx_url"`
	InfluxToken     string `yaml:"influx_token"`
	InfluxOrg       string `yaml:"influx_org"`
	InfluxBucket    string `yaml:"influx_bucket"`
}

// Default returns an Options populated with the original simulator's
// defaults (file sink, 16-bit samples, ionosphere enabled, 0 degree
// elevation mask).
func Default() Options {
	return Options{
		SdrType:          SdrFile,
		SampleBits:       16,
		IonosphereEnable: true,
		DurationSec:      300,
		ElevationMaskDeg: 0.0,
		SerialBaud:       115200,
	}
}

// Load reads path as YAML into a copy of Default().
func Load(path string) (Options, error) {
	opt := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opt, errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, &opt); err != nil {
		return opt, errors.Wrapf(err, "config: parse %s", path)
	}
	return opt, nil
}

// BindFlags registers command-line overrides for the most commonly
// tweaked options onto fs, applying onto opt when fs.Parse runs.
//
// Matching rnx2rtkp's "-k file" convention, flags always take
// precedence over a loaded config file since BindFlags' flag.Var
// targets write directly into opt after Load has already populated it.
func BindFlags(fs *flag.FlagSet, opt *Options) {
	fs.StringVar(&opt.NavFile, "nav", opt.NavFile, "RINEX navigation file")
	fs.StringVar(&opt.MotionFile, "motion", opt.MotionFile, "user motion CSV file")
	fs.StringVar(&opt.StationID, "station", opt.StationID, "IGS station ID for RINEX fetch")
	fs.BoolVar(&opt.UseRinex3, "rinex3", opt.UseRinex3, "unused: the RINEX version is read from the nav file header")
	fs.BoolVar(&opt.IonosphereEnable, "iono", opt.IonosphereEnable, "apply ionospheric delay")
	fs.IntVar(&opt.DurationSec, "duration", opt.DurationSec, "simulation duration in seconds")
	fs.StringVar((*string)(&opt.SdrType), "sdr", string(opt.SdrType), "output backend: none|file|hackrf|pluto|serial")
	fs.StringVar(&opt.SdrName, "out", opt.SdrName, "output file path (file backend)")
	fs.IntVar(&opt.TxGain, "gain", opt.TxGain, "transmit gain in dB")
	fs.IntVar(&opt.SampleBits, "sample-bits", opt.SampleBits, "IQ sample size: 8 or 16")
	fs.Float64Var(&opt.ElevationMaskDeg, "mask", opt.ElevationMaskDeg, "elevation mask angle in degrees")
	fs.IntVar(&opt.TraceLevel, "trace", opt.TraceLevel, "trace verbosity level")
	fs.StringVar(&opt.MetricsAddr, "metrics-addr", opt.MetricsAddr, "address to serve /metrics on, empty disables")
}

// Validate checks option combinations that a flag set alone can't
// express, mirroring the original's startup sanity checks (a nav file
// or a station ID to fetch one for is required; a motion file and an
// enabled target are mutually exclusive position sources; a duration
// must be positive).
func (o Options) Validate() error {
	if o.NavFile == "" && o.StationID == "" {
		return errors.New("config: nav_file or station_id is required")
	}
	if o.DurationSec <= 0 {
		return errors.New("config: duration_sec must be positive")
	}
	if o.SampleBits != 8 && o.SampleBits != 16 {
		return errors.New("config: sample_bits must be 8 or 16")
	}
	if o.MotionFile != "" && o.Target.Enabled {
		return errors.New("config: motion_file and target are mutually exclusive")
	}
	switch o.SdrType {
	case SdrNone, SdrFile, SdrHackRF, SdrPluto, SdrSerial:
	default:
		return errors.Errorf("config: unknown sdr_type %q", o.SdrType)
	}
	return nil
}
