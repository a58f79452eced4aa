// Package ephemeris parses RINEX navigation files (v2 and v3, GPS-only,
// optionally gzip-compressed) into broadcast ephemeris sets and selects
// the set valid for a given transmit time.
//
// Field layout and the hour-gap set-boundary rule are grounded on
// original_source/gps.c (readRinex2, readRinex3, replaceExpDesignator).
package ephemeris

import (
	"bufio"
	"compress/gzip"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
)

// ErrMalformed wraps any RINEX navigation file structural defect
// (missing header terminator, truncated data record) that leaves Load
// unable to produce a usable ephemeris set.
var ErrMalformed = errors.New("ephemeris: malformed rinex nav file")

// MaxSat is the highest GPS PRN this store tracks.
const MaxSat = 32

// SetArraySize is the maximum number of distinct ephemeris sets a single
// daily broadcast (brdc) navigation file carries, matching EPHEM_ARRAY_SIZE.
const SetArraySize = 13

// Eph is one satellite's broadcast ephemeris, field names and units
// following IS-GPS-200 and original_source/gps.h's ephem_t.
type Eph struct {
	Valid  bool
	Sva    int
	Svh    int
	Code   int
	Flag   int
	Fit    float64
	T      gnsstime.Calendar
	Toc    gnsstime.GpsTime
	Toe    gnsstime.GpsTime
	Iodc   int
	Iode   int
	Deltan float64
	Cuc    float64
	Cus    float64
	Cic    float64
	Cis    float64
	Crc    float64
	Crs    float64
	Ecc    float64
	Sqrta  float64
	M0     float64
	Omg0   float64
	Inc0   float64
	Aop    float64
	Omgdot float64
	Idot   float64
	Af0    float64
	Af1    float64
	Af2    float64
	Tgd    float64

	// Derived working values, computed once at parse time.
	A        float64 // semi-major axis
	N        float64 // corrected mean motion
	Sq1e2    float64 // sqrt(1-e^2)
	Omgkdot  float64 // OmegaDot - OmegaEEarth
}

// IonoUtc is the Klobuchar ionospheric model plus UTC correction
// parameters broadcast in subframe 4/5 and the RINEX header.
type IonoUtc struct {
	Valid                          bool
	Alpha0, Alpha1, Alpha2, Alpha3 float64
	Beta0, Beta1, Beta2, Beta3     float64
	A0, A1                         float64
	Dtls, Tot, Wnt                 int
	Dtlsf, Dn, Wnlsf               int
}

// Store holds the ephemeris sets loaded from one navigation file: up to
// SetArraySize sets, each covering MaxSat satellites.
type Store struct {
	Sets    int
	Eph     [SetArraySize][MaxSat]Eph
	IonoUtc IonoUtc
}

const gmEarth = 3.986005e14
const omegaEarth = 7.2921151467e-5
const secondsInHour = 3600.0
const secondsInWeek = 604800.0
const secondsInHalfWeek = secondsInWeek / 2.0

// Pos holds a satellite's ECEF position and velocity, plus its clock
// bias and drift, at a given time of transmission.
type Pos struct {
	Xyz      gnsstime.Ecef
	Vel      gnsstime.Ecef
	ClkBias  float64
	ClkDrift float64
}

// SatPos computes e's ECEF position, velocity and clock correction at
// time g via the broadcast-ephemeris Kepler propagation of IS-GPS-200,
// including the relativistic clock correction term.
//
// Grounded on original_source/gps.c's satpos.
func (e *Eph) SatPos(g gnsstime.GpsTime) Pos {
	tk := g.Sec - e.Toe.Sec
	if tk > secondsInHalfWeek {
		tk -= secondsInWeek
	} else if tk < -secondsInHalfWeek {
		tk += secondsInWeek
	}

	mk := e.M0 + e.N*tk
	ek := gnsstime.KeplerE(mk, e.Ecc, 1.0e-14)

	sek, cek := math.Sin(ek), math.Cos(ek)
	oneMinusEcosE := 1.0 - e.Ecc*cek
	ekdot := e.N / oneMinusEcosE

	relativistic := -4.442807633e-10 * e.Ecc * e.Sqrta * sek

	pk := math.Atan2(e.Sq1e2*sek, cek-e.Ecc) + e.Aop
	pkdot := e.Sq1e2 * ekdot / oneMinusEcosE

	s2pk, c2pk := math.Sin(2.0*pk), math.Cos(2.0*pk)

	uk := pk + e.Cus*s2pk + e.Cuc*c2pk
	suk, cuk := math.Sin(uk), math.Cos(uk)
	ukdot := pkdot * (1.0 + 2.0*(e.Cus*c2pk-e.Cuc*s2pk))

	rk := e.A*oneMinusEcosE + e.Crc*c2pk + e.Crs*s2pk
	rkdot := e.A*e.Ecc*sek*ekdot + 2.0*pkdot*(e.Crs*c2pk-e.Crc*s2pk)

	ik := e.Inc0 + e.Idot*tk + e.Cic*c2pk + e.Cis*s2pk
	sik, cik := math.Sin(ik), math.Cos(ik)
	ikdot := e.Idot + 2.0*pkdot*(e.Cis*c2pk-e.Cic*s2pk)

	xpk, ypk := rk*cuk, rk*suk
	xpkdot := rkdot*cuk - ypk*ukdot
	ypkdot := rkdot*suk + xpk*ukdot

	ok := e.Omg0 + tk*e.Omgkdot - omegaEarth*e.Toe.Sec
	sok, cok := math.Sin(ok), math.Cos(ok)

	var pos, vel gnsstime.Ecef
	pos.X = xpk*cok - ypk*cik*sok
	pos.Y = xpk*sok + ypk*cik*cok
	pos.Z = ypk * sik

	tmp := ypkdot*cik - ypk*sik*ikdot
	vel.X = -e.Omgkdot*pos.Y + xpkdot*cok - tmp*sok
	vel.Y = e.Omgkdot*pos.X + xpkdot*sok + tmp*cok
	vel.Z = ypk*cik*ikdot + ypkdot*sik

	tkClk := g.Sec - e.Toc.Sec
	if tkClk > secondsInHalfWeek {
		tkClk -= secondsInWeek
	} else if tkClk < -secondsInHalfWeek {
		tkClk += secondsInWeek
	}

	return Pos{
		Xyz:      pos,
		Vel:      vel,
		ClkBias:  e.Af0 + tkClk*(e.Af1+tkClk*e.Af2) + relativistic - e.Tgd,
		ClkDrift: e.Af1 + 2.0*tkClk*e.Af2,
	}
}

func col(s string, start, n int) string {
	if start < 0 || start >= len(s) {
		return ""
	}
	end := start + n
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

// fortranFloat parses a RINEX Fortran-style float field, where the
// exponent is marked with D or d instead of E, e.g. "-1.234567890123D-04".
func fortranFloat(s string) float64 {
	s = strings.NewReplacer("D", "E", "d", "e").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return v
}

func fortranInt(s string) int {
	return int(fortranFloat(s))
}

// openNav opens a plain or gzip-compressed navigation file transparently,
// sniffing the standard gzip magic bytes.
func openNav(fname string) (io.ReadCloser, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "open rinex nav file %s", fname)
	}
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "open gzip rinex nav file %s", fname)
		}
		return &gzipFile{gz: gz, f: f}, nil
	}
	return &plainFile{r: br, f: f}, nil
}

type gzipFile struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipFile) Close() error {
	g.gz.Close()
	return g.f.Close()
}

type plainFile struct {
	r *bufio.Reader
	f *os.File
}

func (p *plainFile) Read(b []byte) (int, error) { return p.r.Read(b) }
func (p *plainFile) Close() error                { return p.f.Close() }

// Load reads a RINEX navigation file, detecting v2 vs v3 from the header's
// "RINEX VERSION / TYPE" line, and returns the resulting Store.
func Load(fname string) (*Store, error) {
	rc, err := openNav(fname)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rd := bufio.NewScanner(rc)
	rd.Buffer(make([]byte, 4096), 1<<20)

	store := &Store{}

	ver, err := readNavHeader(rd, store)
	if err != nil {
		return nil, err
	}

	if ver >= 3.0 {
		store.Sets, err = readNavBodyV3(rd, store)
	} else {
		store.Sets, err = readNavBodyV2(rd, store)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func readNavHeader(rd *bufio.Scanner, store *Store) (float64, error) {
	var ver float64
	var flags int

	for rd.Scan() {
		line := rd.Text()
		label := col(line, 60, 20)

		switch {
		case strings.HasPrefix(label, "COMMENT"):
			continue
		case strings.HasPrefix(label, "END OF HEADER"):
			store.IonoUtc.Valid = flags == 0xF
			return ver, nil
		case strings.HasPrefix(label, "RINEX VERSION / TYPE"):
			ver = fortranFloat(col(line, 0, 9))
		case strings.HasPrefix(label, "ION ALPHA"):
			store.IonoUtc.Alpha0 = fortranFloat(col(line, 2, 12))
			store.IonoUtc.Alpha1 = fortranFloat(col(line, 14, 12))
			store.IonoUtc.Alpha2 = fortranFloat(col(line, 26, 12))
			store.IonoUtc.Alpha3 = fortranFloat(col(line, 38, 12))
			flags |= 0x1
		case strings.HasPrefix(label, "ION BETA"):
			store.IonoUtc.Beta0 = fortranFloat(col(line, 2, 12))
			store.IonoUtc.Beta1 = fortranFloat(col(line, 14, 12))
			store.IonoUtc.Beta2 = fortranFloat(col(line, 26, 12))
			store.IonoUtc.Beta3 = fortranFloat(col(line, 38, 12))
			flags |= 0x1 << 1
		case strings.HasPrefix(line, "GPSA") && strings.HasPrefix(label, "IONOSPHERIC CORR"):
			store.IonoUtc.Alpha0 = fortranFloat(col(line, 5, 12))
			store.IonoUtc.Alpha1 = fortranFloat(col(line, 17, 12))
			store.IonoUtc.Alpha2 = fortranFloat(col(line, 29, 12))
			store.IonoUtc.Alpha3 = fortranFloat(col(line, 41, 12))
			flags |= 0x1
		case strings.HasPrefix(line, "GPSB") && strings.HasPrefix(label, "IONOSPHERIC CORR"):
			store.IonoUtc.Beta0 = fortranFloat(col(line, 5, 12))
			store.IonoUtc.Beta1 = fortranFloat(col(line, 17, 12))
			store.IonoUtc.Beta2 = fortranFloat(col(line, 29, 12))
			store.IonoUtc.Beta3 = fortranFloat(col(line, 41, 12))
			flags |= 0x1 << 1
		case strings.HasPrefix(label, "DELTA-UTC"):
			store.IonoUtc.A0 = fortranFloat(col(line, 3, 19))
			store.IonoUtc.A1 = fortranFloat(col(line, 22, 19))
			store.IonoUtc.Tot = fortranInt(col(line, 41, 9))
			store.IonoUtc.Wnt = fortranInt(col(line, 50, 9))
			if store.IonoUtc.Tot%4096 == 0 {
				flags |= 0x1 << 2
			}
		case strings.HasPrefix(line, "GPUT") && strings.HasPrefix(label, "TIME SYSTEM CORR"):
			store.IonoUtc.A0 = fortranFloat(col(line, 5, 17))
			store.IonoUtc.A1 = fortranFloat(col(line, 22, 16))
			store.IonoUtc.Tot = fortranInt(col(line, 38, 7))
			store.IonoUtc.Wnt = fortranInt(col(line, 45, 6))
			if store.IonoUtc.Tot%4096 == 0 {
				flags |= 0x1 << 2
			}
		case strings.HasPrefix(label, "LEAP SECONDS"):
			store.IonoUtc.Dtls = fortranInt(col(line, 0, 6))
			flags |= 0x1 << 3
		}
	}
	return ver, errors.Wrap(ErrMalformed, "no END OF HEADER line")
}

// readNavBodyV2 reads the v2 navigation records that follow the header
// (an epoch line with the clock terms, then seven broadcast-orbit lines
// of four Fortran-float fields each) into store.Eph, grouping records
// into sets by toc, and returns the number of sets read.
func readNavBodyV2(rd *bufio.Scanner, store *Store) (int, error) {
	g0 := gnsstime.GpsTime{Week: -1}
	ieph := 0

	for rd.Scan() {
		line := rd.Text()
		if len(line) < 3 {
			continue
		}
		sv := fortranInt(col(line, 0, 2)) - 1
		if sv < 0 || sv >= MaxSat {
			continue
		}

		t := gnsstime.Calendar{
			Year:   fortranInt(col(line, 3, 2)) + 2000,
			Month:  fortranInt(col(line, 6, 2)),
			Day:    fortranInt(col(line, 9, 2)),
			Hour:   fortranInt(col(line, 12, 2)),
			Minute: fortranInt(col(line, 15, 2)),
			Sec:    fortranFloat(col(line, 18, 4)),
		}
		g := gnsstime.FromCalendar(t)

		if g0.Week == -1 {
			g0 = g
		}
		if g.Sub(g0) > secondsInHour {
			g0 = g
			ieph++
			if ieph >= SetArraySize {
				break
			}
		}

		e := &store.Eph[ieph][sv]
		e.T = t
		e.Toc = g
		e.Af0 = fortranFloat(col(line, 22, 19))
		e.Af1 = fortranFloat(col(line, 41, 19))
		e.Af2 = fortranFloat(col(line, 60, 19))

		rows := make([]string, 6)
		for i := range rows {
			if !rd.Scan() {
				return ieph, errors.Wrap(ErrMalformed, "rinex v2 nav record truncated")
			}
			rows[i] = rd.Text()
		}

		e.Iode = fortranInt(col(rows[0], 3, 19))
		e.Crs = fortranFloat(col(rows[0], 22, 19))
		e.Deltan = fortranFloat(col(rows[0], 41, 19))
		e.M0 = fortranFloat(col(rows[0], 60, 19))

		e.Cuc = fortranFloat(col(rows[1], 3, 19))
		e.Ecc = fortranFloat(col(rows[1], 22, 19))
		e.Cus = fortranFloat(col(rows[1], 41, 19))
		e.Sqrta = fortranFloat(col(rows[1], 60, 19))

		e.Toe.Sec = fortranFloat(col(rows[2], 3, 19))
		e.Cic = fortranFloat(col(rows[2], 22, 19))
		e.Omg0 = fortranFloat(col(rows[2], 41, 19))
		e.Cis = fortranFloat(col(rows[2], 60, 19))

		e.Inc0 = fortranFloat(col(rows[3], 3, 19))
		e.Crc = fortranFloat(col(rows[3], 22, 19))
		e.Aop = fortranFloat(col(rows[3], 41, 19))
		e.Omgdot = fortranFloat(col(rows[3], 60, 19))

		e.Idot = fortranFloat(col(rows[4], 3, 19))
		e.Code = fortranInt(col(rows[4], 22, 19))
		e.Toe.Week = fortranInt(col(rows[4], 41, 19))
		e.Flag = fortranInt(col(rows[4], 60, 19))

		e.Sva = fortranInt(col(rows[5], 3, 19))
		e.Svh = fortranInt(col(rows[5], 22, 19))
		if e.Svh > 0 && e.Svh < 32 {
			e.Svh += 32
		}
		e.Tgd = fortranFloat(col(rows[5], 41, 19))
		e.Iodc = fortranInt(col(rows[5], 60, 19))

		if !rd.Scan() {
			return ieph, errors.Wrap(ErrMalformed, "rinex v2 nav record truncated")
		}
		e.Fit = fortranFloat(col(rd.Text(), 22, 19))

		e.Valid = true
		fillWorkingValues(e)
	}

	if g0.Week >= 0 {
		ieph++
	}
	return ieph, nil
}

func readNavBodyV3(rd *bufio.Scanner, store *Store) (int, error) {
	g0 := gnsstime.GpsTime{Week: -1}
	ieph := 0

	for rd.Scan() {
		line := rd.Text()
		if len(line) == 0 || line[0] != 'G' {
			continue
		}

		sv := fortranInt(col(line, 1, 2)) - 1
		if sv < 0 || sv >= MaxSat {
			continue
		}

		t := gnsstime.Calendar{
			Year:   fortranInt(col(line, 4, 4)),
			Month:  fortranInt(col(line, 9, 2)),
			Day:    fortranInt(col(line, 12, 2)),
			Hour:   fortranInt(col(line, 15, 2)),
			Minute: fortranInt(col(line, 18, 2)),
			Sec:    float64(fortranInt(col(line, 21, 2))),
		}
		g := gnsstime.FromCalendar(t)

		if g0.Week == -1 {
			g0 = g
		}
		if g.Sub(g0) > secondsInHour {
			g0 = g
			ieph++
			if ieph >= SetArraySize {
				break
			}
		}

		e := &store.Eph[ieph][sv]
		e.T = t
		e.Toc = g
		e.Af0 = fortranFloat(col(line, 23, 19))
		e.Af1 = fortranFloat(col(line, 42, 19))
		e.Af2 = fortranFloat(col(line, 61, 19))

		rows := make([]string, 7)
		for i := range rows {
			if !rd.Scan() {
				return ieph, errors.Wrap(ErrMalformed, "rinex v3 nav record truncated")
			}
			rows[i] = rd.Text()
		}

		e.Iode = fortranInt(col(rows[0], 4, 19))
		e.Crs = fortranFloat(col(rows[0], 23, 19))
		e.Deltan = fortranFloat(col(rows[0], 42, 19))
		e.M0 = fortranFloat(col(rows[0], 61, 19))

		e.Cuc = fortranFloat(col(rows[1], 4, 19))
		e.Ecc = fortranFloat(col(rows[1], 23, 19))
		e.Cus = fortranFloat(col(rows[1], 42, 19))
		e.Sqrta = fortranFloat(col(rows[1], 61, 19))

		e.Toe.Sec = fortranFloat(col(rows[2], 4, 19))
		e.Cic = fortranFloat(col(rows[2], 23, 19))
		e.Omg0 = fortranFloat(col(rows[2], 42, 19))
		e.Cis = fortranFloat(col(rows[2], 61, 19))

		e.Inc0 = fortranFloat(col(rows[3], 4, 19))
		e.Crc = fortranFloat(col(rows[3], 23, 19))
		e.Aop = fortranFloat(col(rows[3], 42, 19))
		e.Omgdot = fortranFloat(col(rows[3], 61, 19))

		e.Idot = fortranFloat(col(rows[4], 4, 19))
		e.Code = fortranInt(col(rows[4], 23, 19))
		e.Toe.Week = fortranInt(col(rows[4], 42, 19))

		e.Sva = fortranInt(col(rows[5], 4, 19))
		e.Svh = fortranInt(col(rows[5], 23, 19))
		if e.Svh > 0 && e.Svh < 32 {
			e.Svh += 32
		}
		e.Tgd = fortranFloat(col(rows[5], 42, 19))
		e.Iodc = fortranInt(col(rows[5], 61, 19))

		e.Fit = fortranFloat(col(rows[6], 23, 19))

		e.Valid = true
		fillWorkingValues(e)
	}

	if g0.Week >= 0 {
		ieph++
	}
	return ieph, nil
}

func fillWorkingValues(e *Eph) {
	e.A = e.Sqrta * e.Sqrta
	e.N = math.Sqrt(gmEarth/(e.A*e.A*e.A)) + e.Deltan
	e.Sq1e2 = math.Sqrt(1.0 - e.Ecc*e.Ecc)
	e.Omgkdot = e.Omgdot - omegaEarth
}

// SelectSet returns the index of the first ephemeris set in the store
// whose clock epoch (toc) lies within one hour of g for some satellite,
// or -1 if no set qualifies.
func (s *Store) SelectSet(g gnsstime.GpsTime) int {
	for i := 0; i < s.Sets; i++ {
		for sv := 0; sv < MaxSat; sv++ {
			e := &s.Eph[i][sv]
			if !e.Valid {
				continue
			}
			dt := g.Sub(e.Toc)
			if dt >= -secondsInHour && dt < secondsInHour {
				return i
			}
		}
	}
	return -1
}

// NextSetDue reports whether, given the currently active set index ieph,
// the store's following set (ieph+1) has become valid for time grx --
// i.e. its clock epoch is now within the hour. The scheduler calls this
// on the 30-second nav-refresh boundary to decide whether to roll
// forward to the next ephemeris set (wrapping at Sets).
func (s *Store) NextSetDue(ieph int, grx gnsstime.GpsTime) (next int, due bool) {
	j := (ieph + 1) % s.Sets
	for sv := 0; sv < MaxSat; sv++ {
		e := &s.Eph[j][sv]
		if !e.Valid {
			continue
		}
		if e.Toc.Sub(grx) < secondsInHour {
			return j, true
		}
		break
	}
	return ieph, false
}

// OverwriteTime shifts every valid ephemeris's toc and toe so the
// store's earliest clock epoch lands on g0 rounded down to the nearest
// 2-hour boundary, used when the simulator's start time has been
// overridden away from the file's own epoch (spec.md's time_overwrite
// option). It also overwrites the UTC reference week/seconds-of-week so
// ionoutc stays consistent with the shifted ephemeris. A no-op if the
// store has no valid ephemeris in its first set.
func (s *Store) OverwriteTime(g0 gnsstime.GpsTime) {
	var gmin gnsstime.GpsTime
	found := false
	for sv := 0; sv < MaxSat; sv++ {
		if s.Eph[0][sv].Valid {
			gmin = s.Eph[0][sv].Toc
			found = true
			break
		}
	}
	if !found {
		return
	}

	gtmp := gnsstime.GpsTime{Week: g0.Week, Sec: math.Floor(g0.Sec/7200.0) * 7200.0}
	dsec := gtmp.Sub(gmin)

	s.IonoUtc.Wnt = gtmp.Week
	s.IonoUtc.Tot = int(gtmp.Sec)

	for i := 0; i < s.Sets; i++ {
		for sv := 0; sv < MaxSat; sv++ {
			e := &s.Eph[i][sv]
			if !e.Valid {
				continue
			}
			e.Toc = e.Toc.Add(dsec)
			e.Toe = e.Toe.Add(dsec)
		}
	}
}
