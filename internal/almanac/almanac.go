// Package almanac parses SEM-format GPS almanac files into the reduced
// per-SV orbital parameter set used for subframe 4/5 page generation.
//
// Grounded on original_source/almanac.c (almanac_read_file): same field
// order and the same (0.30+delta_i)*PI / *PI scalings applied at parse
// time, rather than deferred to subframe assembly.
package almanac

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
)

// MaxSat is the highest GPS PRN this store tracks.
const MaxSat = 32

// maxToaSkewSeconds is the widest toa-to-reference-time gap still
// considered usable; beyond it the almanac is too stale to trust for
// subframe 4/5 generation.
const maxToaSkewSeconds = 4 * 7 * 86400.0

// ErrStaleToa indicates the almanac's time of applicability is more
// than four weeks from the scenario's reference time.
var ErrStaleToa = errors.New("almanac: time of applicability more than 4 weeks from reference time")

// Sv is one satellite's almanac entry, parsed and scaled per IS-GPS-200.
type Sv struct {
	Valid      bool
	Prn        int
	Svn        int
	Ura        int
	Health     int
	ConfigCode int
	Week8      int // raw 8-bit almanac week (toa.week & 0xFF)
	Toa        gnsstime.GpsTime

	Ecc      float64
	DeltaI   float64 // radians, already offset by the 0.3*PI reference inclination
	OmegaDot float64 // rad/s
	Sqrta    float64
	Omega0   float64 // rad
	Aop      float64 // rad (argument of perigee)
	M0       float64 // rad
	Af0      float64
	Af1      float64
}

// Store holds the almanac for all 32 GPS PRNs.
type Store struct {
	Valid bool
	Sv    [MaxSat]Sv
}

// Load parses a SEM almanac text file (as distributed by celestrak.com)
// into a Store. A malformed file yields an all-invalid Store and a
// non-nil error, mirroring almanac_read_file's drop-and-report behavior.
func Load(fname string) (*Store, error) {
	f, err := os.Open(fname)
	if err != nil {
		return &Store{}, errors.Wrapf(err, "open almanac file %s", fname)
	}
	defer f.Close()

	store, err := parse(f)
	if err != nil {
		return &Store{}, errors.Wrap(err, "parse SEM almanac")
	}
	return store, nil
}

func parse(r io.Reader) (*Store, error) {
	rd := bufio.NewReader(r)
	store := &Store{}

	var n int
	if _, err := fmt.Fscan(rd, &n); err != nil {
		return nil, errors.Wrap(err, "read SV count")
	}
	var title string
	if _, err := fmt.Fscan(rd, &title); err != nil {
		return nil, errors.Wrap(err, "read almanac title")
	}
	var week, toa int
	if _, err := fmt.Fscan(rd, &week); err != nil {
		return nil, errors.Wrap(err, "read almanac week")
	}
	if _, err := fmt.Fscan(rd, &toa); err != nil {
		return nil, errors.Wrap(err, "read almanac toa")
	}

	n--
	if n > 31 {
		n = 31
	}

	for j := 0; j < n; j++ {
		var prn int
		if _, err := fmt.Fscan(rd, &prn); err != nil {
			return nil, errors.Wrapf(err, "read PRN for entry %d", j)
		}
		if prn < 1 || prn > MaxSat {
			return nil, errors.Errorf("PRN %d out of range", prn)
		}

		sv := &store.Sv[prn-1]
		sv.Prn = prn
		sv.Week8 = week & 0xFF
		sv.Toa = gnsstime.GpsTime{Week: week, Sec: float64(toa)}

		if _, err := fmt.Fscan(rd, &sv.Svn); err != nil {
			return nil, errors.Wrapf(err, "read SVN for PRN %d", prn)
		}
		if _, err := fmt.Fscan(rd, &sv.Ura); err != nil {
			return nil, errors.Wrapf(err, "read URA for PRN %d", prn)
		}
		if _, err := fmt.Fscan(rd, &sv.Ecc); err != nil {
			return nil, errors.Wrapf(err, "read eccentricity for PRN %d", prn)
		}
		var deltaI float64
		if _, err := fmt.Fscan(rd, &deltaI); err != nil {
			return nil, errors.Wrapf(err, "read delta-i for PRN %d", prn)
		}
		sv.DeltaI = (0.30 + deltaI) * math.Pi
		if _, err := fmt.Fscan(rd, &sv.OmegaDot); err != nil {
			return nil, errors.Wrapf(err, "read omegadot for PRN %d", prn)
		}
		sv.OmegaDot *= math.Pi
		if _, err := fmt.Fscan(rd, &sv.Sqrta); err != nil {
			return nil, errors.Wrapf(err, "read sqrt(a) for PRN %d", prn)
		}
		if _, err := fmt.Fscan(rd, &sv.Omega0); err != nil {
			return nil, errors.Wrapf(err, "read omega0 for PRN %d", prn)
		}
		sv.Omega0 *= math.Pi
		if _, err := fmt.Fscan(rd, &sv.Aop); err != nil {
			return nil, errors.Wrapf(err, "read argument of perigee for PRN %d", prn)
		}
		sv.Aop *= math.Pi
		if _, err := fmt.Fscan(rd, &sv.M0); err != nil {
			return nil, errors.Wrapf(err, "read M0 for PRN %d", prn)
		}
		sv.M0 *= math.Pi
		if _, err := fmt.Fscan(rd, &sv.Af0); err != nil {
			return nil, errors.Wrapf(err, "read af0 for PRN %d", prn)
		}
		if _, err := fmt.Fscan(rd, &sv.Af1); err != nil {
			return nil, errors.Wrapf(err, "read af1 for PRN %d", prn)
		}
		if _, err := fmt.Fscan(rd, &sv.Health); err != nil {
			return nil, errors.Wrapf(err, "read health for PRN %d", prn)
		}
		if _, err := fmt.Fscan(rd, &sv.ConfigCode); err != nil {
			return nil, errors.Wrapf(err, "read config code for PRN %d", prn)
		}
		sv.Ura = clampBits(sv.Ura, 15)
		sv.Health = clampBits(sv.Health, 63)
		sv.ConfigCode = clampBits(sv.ConfigCode, 15)
		sv.Valid = true
	}

	store.Valid = true
	return store, nil
}

// CheckToaSkew returns ErrStaleToa if g is more than four weeks from the
// almanac's time of applicability. Every valid SV shares the same toa
// (it's a file-wide field in the SEM format), so checking the first
// valid entry is sufficient. A no-op on an invalid store.
func (s *Store) CheckToaSkew(g gnsstime.GpsTime) error {
	if !s.Valid {
		return nil
	}
	for sv := range s.Sv {
		if !s.Sv[sv].Valid {
			continue
		}
		skew := g.Sub(s.Sv[sv].Toa)
		if skew < 0 {
			skew = -skew
		}
		if skew > maxToaSkewSeconds {
			return errors.Wrapf(ErrStaleToa, "toa skew %.0fs", skew)
		}
		return nil
	}
	return nil
}

// clampBits clamps v to [0, max], the range of the field's bit width in
// the transmitted subframe 4/5 page.
func clampBits(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
