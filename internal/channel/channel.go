// Package channel models one simulated GPS L1 C/A signal path: visibility
// and range computation against a receiver trajectory, ionospheric delay,
// and the carrier/code phase and navigation-bit state a baseband sample
// generator steps forward in time.
//
// Grounded on original_source/gps.c's computeRange, checkSatVisibility,
// computeCodePhase, allocateChannel and ionosphericDelay.
package channel

import (
	"math"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/cacode"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/ephemeris"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/navmsg"
)

const (
	speedOfLight  = 2.99792458e8
	lambdaL1      = 0.190293672798365
	codeFreq      = 1.023e6
	carrToCode    = 1.0 / 1540.0
	omegaEarth    = 7.2921151467e-5
	secondsInDay  = 86400.0
	piVal         = math.Pi
	r2d           = 57.2957795131
)

// MaxChannels is the number of simultaneous signal paths a single RF
// front end generates, matching MAX_CHAN.
const MaxChannels = 12

// Rho is a computed observation: geometric range, pseudorange, range
// rate, line-of-sight azimuth/elevation and ionospheric delay at one
// instant.
type Rho struct {
	G         gnsstime.GpsTime
	Range     float64
	Rate      float64
	Geometric float64
	Azel      gnsstime.Azel
	IonoDelay float64
}

// IonosphericDelay returns the Klobuchar ionospheric group delay in
// meters (already scaled by the speed of light), or the
// constant fallback when iono data isn't broadcast, or zero when
// ionospheric modeling is disabled entirely.
//
// Grounded on original_source/gps.c's ionosphericDelay.
func IonosphericDelay(ionoUtc ephemeris.IonoUtc, enabled bool, g gnsstime.GpsTime, llh gnsstime.Llh, azel gnsstime.Azel) float64 {
	if !enabled {
		return 0.0
	}

	e := azel.El / piVal
	phiU := llh.Lat / piVal
	lamU := llh.Lon / piVal

	f := 1.0 + 16.0*math.Pow(0.53-e, 3.0)

	if !ionoUtc.Valid {
		return f * 5.0e-9 * speedOfLight
	}

	psi := 0.0137/(e+0.11) - 0.022

	phiI := phiU + psi*math.Cos(azel.Az)
	if phiI > 0.416 {
		phiI = 0.416
	} else if phiI < -0.416 {
		phiI = -0.416
	}

	lamI := lamU + psi*math.Sin(azel.Az)/math.Cos(phiI*piVal)

	phiM := phiI + 0.064*math.Cos((lamI-1.617)*piVal)
	phiM2 := phiM * phiM
	phiM3 := phiM2 * phiM

	amp := ionoUtc.Alpha0 + ionoUtc.Alpha1*phiM + ionoUtc.Alpha2*phiM2 + ionoUtc.Alpha3*phiM3
	if amp < 0.0 {
		amp = 0.0
	}

	per := ionoUtc.Beta0 + ionoUtc.Beta1*phiM + ionoUtc.Beta2*phiM2 + ionoUtc.Beta3*phiM3
	if per < 72000.0 {
		per = 72000.0
	}

	t := secondsInDay/2.0*lamI + g.Sec
	for t >= secondsInDay {
		t -= secondsInDay
	}
	for t < 0 {
		t += secondsInDay
	}

	x := 2.0 * piVal * (t - 50400.0) / per
	if math.Abs(x) < 1.57 {
		x2 := x * x
		x4 := x2 * x2
		return f * (5.0e-9 + amp*(1.0-x2/2.0+x4/24.0)) * speedOfLight
	}
	return f * 5.0e-9 * speedOfLight
}

// ComputeRange computes the satellite/receiver observation at time g,
// including light-time and Earth-rotation corrections and ionospheric
// delay.
//
// Grounded on original_source/gps.c's computeRange.
func ComputeRange(eph ephemeris.Eph, ionoUtc ephemeris.IonoUtc, ionoEnabled bool, g gnsstime.GpsTime, xyz gnsstime.Ecef) Rho {
	sat := eph.SatPos(g)
	pos, vel := sat.Xyz, sat.Vel

	los := subVect(pos, xyz)
	tau := norm(los) / speedOfLight

	pos.X -= vel.X * tau
	pos.Y -= vel.Y * tau
	pos.Z -= vel.Z * tau

	xrot := pos.X + pos.Y*omegaEarth*tau
	yrot := pos.Y - pos.X*omegaEarth*tau
	pos.X, pos.Y = xrot, yrot

	los = subVect(pos, xyz)
	rng := norm(los)

	rate := dotProd(vel, los) / rng

	llh := xyz.ToLlh()
	tmat := gnsstime.LtcMatrix(llh)
	neu := los.ToNeu(tmat)
	azel := neu.ToAzel()

	rho := Rho{
		G:         g,
		Geometric: rng,
		Range:     rng - speedOfLight*sat.ClkBias,
		Rate:      rate,
		Azel:      azel,
	}
	rho.IonoDelay = IonosphericDelay(ionoUtc, ionoEnabled, g, llh, azel)
	rho.Range += rho.IonoDelay
	return rho
}

// CheckVisibility reports whether eph's satellite is above elevMaskDeg
// degrees of elevation at time g from the receiver at xyz, and its
// current azimuth/elevation.
//
// Grounded on original_source/gps.c's checkSatVisibility.
func CheckVisibility(eph ephemeris.Eph, g gnsstime.GpsTime, xyz gnsstime.Ecef, elevMaskDeg float64) (gnsstime.Azel, bool) {
	if !eph.Valid {
		return gnsstime.Azel{}, false
	}

	llh := xyz.ToLlh()
	tmat := gnsstime.LtcMatrix(llh)

	sat := eph.SatPos(g)
	los := subVect(sat.Xyz, xyz)
	neu := los.ToNeu(tmat)
	azel := neu.ToAzel()

	return azel, azel.El*r2d > elevMaskDeg
}

func subVect(a, b gnsstime.Ecef) gnsstime.Ecef {
	return gnsstime.Ecef{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func norm(v gnsstime.Ecef) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func dotProd(a, b gnsstime.Ecef) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Channel is one active signal path: its PRN's C/A code, the current
// carrier/code frequency and phase, and the navigation-bit stream it
// is currently transmitting.
type Channel struct {
	Prn  int
	Ca   []int
	Azel gnsstime.Azel

	FCarr         float64
	FCode         float64
	CarrPhase     uint32 // fixed point, 512*65536 per cycle: bits 24..16 index the sin/cos tables
	CarrPhaseStep int32

	CodePhase float64

	Stream *navmsg.Stream
	Dwrd   []uint32
	G0     gnsstime.GpsTime

	IWord    int
	IBit     int
	ICode    int
	DataBit  int
	CodeCA   int

	Rho0 Rho
}

// Allocate initializes a free channel slot to transmit prn's signal,
// seeding its C/A code, navigation message stream, and initial
// pseudorange/carrier-phase state the way allocateChannel does for a
// newly visible satellite.
//
// Grounded on original_source/gps.c's allocateChannel.
func Allocate(prn int, pages navmsg.Pages, eph ephemeris.Eph, ionoUtc ephemeris.IonoUtc, ionoEnabled bool,
	grx gnsstime.GpsTime, xyz gnsstime.Ecef, azel gnsstime.Azel) *Channel {

	ch := &Channel{
		Prn:  prn,
		Ca:   cacode.Generate(prn),
		Azel: azel,
		Dwrd: make([]uint32, navmsg.DwrdLen),
	}

	ch.Stream = navmsg.NewStream(pages)
	ch.Stream.Advance(grx, ch.Dwrd, true)
	ch.G0 = ch.Stream.G0()

	rho := ComputeRange(eph, ionoUtc, ionoEnabled, grx, xyz)
	ch.Rho0 = rho

	rXyz := rho.Range
	var ref gnsstime.Ecef
	rhoRef := ComputeRange(eph, ionoUtc, ionoEnabled, grx, ref)
	rRef := rhoRef.Range

	phaseIni := (2.0*rRef - rXyz) / lambdaL1
	phaseIni -= math.Floor(phaseIni)
	ch.CarrPhase = uint32(512.0 * 65536.0 * phaseIni)

	return ch
}

// ComputeCodePhase advances the channel's carrier/code frequency, code
// phase and data-bit index to reflect the fresh observation rho1 taken
// dt seconds after the previous one.
//
// Grounded on original_source/gps.c's computeCodePhase.
func (ch *Channel) ComputeCodePhase(rho1 Rho, dt float64) {
	rhorate := (rho1.Range - ch.Rho0.Range) / dt

	ch.FCarr = -rhorate / lambdaL1
	ch.FCode = codeFreq + ch.FCarr*carrToCode

	ms := ((rho1.G.Sub(ch.G0) + 6.0) - ch.Rho0.Range/speedOfLight) * 1000.0

	ims := int(ms)
	ch.CodePhase = (ms - float64(ims)) * float64(cacode.SeqLen)

	ch.IWord = ims / 600
	ims -= ch.IWord * 600

	ch.IBit = ims / 20
	ims -= ch.IBit * 20

	ch.ICode = ims

	ch.CodeCA = ch.Ca[int(ch.CodePhase)]*2 - 1
	ch.DataBit = int((ch.Dwrd[ch.IWord]>>(29-uint(ch.IBit)))&0x1)*2 - 1

	ch.Rho0 = rho1
}

// RefreshNavMsg regenerates the channel's data-word buffer for the
// current 30-second frame at g, following the same bridging-buffer
// scheme as Allocate's first call but without resetting carrier/code
// phase state.
func (ch *Channel) RefreshNavMsg(g gnsstime.GpsTime) {
	ch.Stream.Advance(g, ch.Dwrd, false)
	ch.G0 = ch.Stream.G0()
}

// SetCarrierPhaseStep precomputes the per-sample carrier phase
// increment for a sampling interval of delt seconds, given the channel's
// current carrier frequency.
//
// Grounded on original_source/gps.c's fixed-point carr_phasestep update.
func (ch *Channel) SetCarrierPhaseStep(delt float64) {
	ch.CarrPhaseStep = int32(math.Round(512.0 * 65536.0 * ch.FCarr * delt))
}

// AntennaGain returns the receiver antenna's linear gain for a signal
// arriving at elevation elDeg degrees, from the 37-entry boresight
// attenuation table sampled every 5 degrees from zenith.
//
// Grounded on original_source/gps.c's ant_pat initialization.
func AntennaGain(elDeg float64) float64 {
	ibs := int((90.0 - elDeg) / 5.0)
	if ibs < 0 {
		ibs = 0
	}
	if ibs > 36 {
		ibs = 36
	}
	return math.Pow(10.0, -antPatDb[ibs]/20.0)
}

// Gain returns the combined free-space path loss and receiver antenna
// gain for an observation at geometric range rangeM and elevation
// elDeg, matching the inner loop's per-channel signal scale factor.
func Gain(rangeM, elDeg float64) float64 {
	pathLoss := 20200000.0 / rangeM
	return pathLoss * AntennaGain(elDeg)
}

// Sample advances the channel's code phase, data bit and carrier phase
// by one sampling interval and returns the unscaled in-phase/quadrature
// contribution for this channel; the caller accumulates these across
// all active channels and applies Gain before quantizing to the output
// sample format.
//
// Grounded on original_source/gps.c's per-sample inner loop in
// gps_thread_ep.
func (ch *Channel) Sample(delt float64) (i, q float64) {
	iTable := int(ch.CarrPhase>>16) & 511

	i = float64(ch.DataBit*ch.CodeCA) * float64(cosTable512[iTable])
	q = float64(ch.DataBit*ch.CodeCA) * float64(sinTable512[iTable])

	ch.CodePhase += ch.FCode * delt
	if ch.CodePhase >= float64(cacode.SeqLen) {
		ch.CodePhase -= float64(cacode.SeqLen)

		ch.ICode++
		if ch.ICode >= 20 {
			ch.ICode = 0
			ch.IBit++

			if ch.IBit >= 30 {
				ch.IBit = 0
				ch.IWord++
			}

			ch.DataBit = int((ch.Dwrd[ch.IWord]>>(29-uint(ch.IBit)))&0x1)*2 - 1
		}
	}

	ch.CodeCA = ch.Ca[int(ch.CodePhase)]*2 - 1
	ch.CarrPhase += uint32(ch.CarrPhaseStep)

	return i, q
}
