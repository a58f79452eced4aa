// Package scheduler drives the simulation's epoch loop: it tracks
// receiver position over time, allocates and frees channels against
// visible satellites, refreshes navigation messages on the 30-second
// boundary, and steps every active channel's baseband sample generator
// into IQ buffers it hands off to a sink's fifo pool.
//
// Grounded on original_source/gps.c's gps_thread_ep main loop structure
// and cadence constants (0.1 s channel refresh, 30 s nav/alloc refresh),
// and allocateChannel's per-SV allocation bookkeeping.
package scheduler

import (
	"context"
	"math"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/almanac"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/channel"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/ephemeris"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/fifo"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/motion"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/navmsg"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/sink"
)

// EpochSeconds is the receiver-position/visibility refresh cadence.
const EpochSeconds = 0.1

// NavRefreshEpochs is the number of 0.1 s epochs between navigation
// message and channel-allocation refreshes (30 s / 0.1 s).
const NavRefreshEpochs = 300

// Config bundles the scheduler's static run parameters.
type Config struct {
	ElevationMaskDeg float64
	IonosphereEnable bool
	SampleSize       sink.SampleSize
	// GainScale is an extra linear scale applied on top of path-loss/
	// antenna gain, sourced from the sink's SampleHeadroom. Zero defaults
	// to 1.0 (no scaling) so existing callers that don't set it are
	// unaffected.
	GainScale float64
}

// Scheduler owns all per-tick simulation state: the active ephemeris
// set, almanac, receiver trajectory, channel allocation table, and the
// fifo pool samples are written into.
type Scheduler struct {
	cfg Config

	ephStore *ephemeris.Store
	almStore *almanac.Store
	ieph     int

	grx gnsstime.GpsTime

	channels     [channel.MaxChannels]*channel.Channel
	allocatedSat [ephemeris.MaxSat]int // channel index allocated to sv, or -1

	pages [ephemeris.MaxSat]navmsg.Pages

	pool *fifo.Pool
}

// New creates a Scheduler starting at g0 against ephStore/almStore.
// ieph must already be a valid ephemeris set index (see
// ephemeris.Store.SelectSet).
func New(cfg Config, ephStore *ephemeris.Store, almStore *almanac.Store, ieph int, g0 gnsstime.GpsTime, pool *fifo.Pool) *Scheduler {
	if cfg.GainScale <= 0 {
		cfg.GainScale = 1.0
	}
	s := &Scheduler{
		cfg:      cfg,
		ephStore: ephStore,
		almStore: almStore,
		ieph:     ieph,
		grx:      g0,
		pool:     pool,
	}
	for sv := range s.allocatedSat {
		s.allocatedSat[sv] = -1
	}
	s.rebuildPages()
	return s
}

func (s *Scheduler) rebuildPages() {
	ionoUtc := s.ephStore.IonoUtc
	for sv := 0; sv < ephemeris.MaxSat; sv++ {
		e := s.ephStore.Eph[s.ieph][sv]
		if !e.Valid {
			continue
		}
		s.pages[sv] = navmsg.BuildPages(e, ionoUtc, s.almStore)
	}
}

// AllocateChannels checks every satellite's visibility from xyz at the
// scheduler's current time and allocates/frees channel slots to match,
// mirroring allocateChannel's persistent allocatedSat bookkeeping so a
// satellite already being tracked keeps its channel (and navigation-bit
// phase) across calls.
func (s *Scheduler) AllocateChannels(xyz gnsstime.Ecef) (visibleCount int) {
	for sv := 0; sv < ephemeris.MaxSat; sv++ {
		e := s.ephStore.Eph[s.ieph][sv]
		azel, visible := channel.CheckVisibility(e, s.grx, xyz, s.cfg.ElevationMaskDeg)
		if visible {
			visibleCount++
			if s.allocatedSat[sv] == -1 {
				for i := range s.channels {
					if s.channels[i] == nil {
						ch := channel.Allocate(sv+1, s.pages[sv], e, s.ephStore.IonoUtc, s.cfg.IonosphereEnable, s.grx, xyz, azel)
						s.channels[i] = ch
						s.allocatedSat[sv] = i
						break
					}
				}
			}
		} else if s.allocatedSat[sv] != -1 {
			s.channels[s.allocatedSat[sv]] = nil
			s.allocatedSat[sv] = -1
		}
	}
	return visibleCount
}

// RefreshNavAndEphemeris is the 30-second-boundary maintenance step:
// it regenerates every active channel's navigation-bit buffer for the
// current frame, advances to the next ephemeris set when it has become
// valid, and rebuilds every satellite's subframe pages against the
// (possibly new) set before reallocating channels.
func (s *Scheduler) RefreshNavAndEphemeris(xyz gnsstime.Ecef) {
	for _, ch := range s.channels {
		if ch != nil {
			ch.RefreshNavMsg(s.grx)
		}
	}

	if next, due := s.ephStore.NextSetDue(s.ieph, s.grx); due {
		s.ieph = next
		s.rebuildPages()
	}

	s.AllocateChannels(xyz)
}

// StepEpoch advances the receiver to xyz at the scheduler's current
// time, refreshes every active channel's range/code-phase/carrier-step
// state for the coming 0.1 s epoch, generates one epoch's worth of IQ
// samples scaled by path loss and antenna gain, and hands the filled
// buffer to the sink's fifo pool.
func (s *Scheduler) StepEpoch(xyz gnsstime.Ecef) error {
	type active struct {
		ch   *channel.Channel
		gain float64
	}
	var actives []active

	for sv := 0; sv < ephemeris.MaxSat; sv++ {
		idx := s.allocatedSat[sv]
		if idx == -1 {
			continue
		}
		ch := s.channels[idx]
		e := s.ephStore.Eph[s.ieph][sv]
		rho := channel.ComputeRange(e, s.ephStore.IonoUtc, s.cfg.IonosphereEnable, s.grx, xyz)
		ch.ComputeCodePhase(rho, EpochSeconds)
		ch.SetCarrierPhaseStep(1.0 / sink.TxSampleRate)

		gain := channel.Gain(rho.Geometric, rho.Azel.El*180.0/math.Pi) * s.cfg.GainScale
		actives = append(actives, active{ch: ch, gain: gain})
	}

	buf := s.pool.Acquire()
	if buf == nil {
		return fifo.ErrHalted
	}

	delt := 1.0 / float64(sink.TxSampleRate)
	for isamp := 0; isamp < sink.NumIqSamples; isamp++ {
		var iAcc, qAcc float64
		for _, a := range actives {
			i, q := a.ch.Sample(delt)
			iAcc += i * a.gain
			qAcc += q * a.gain
		}
		if s.cfg.SampleSize == sink.SC16 {
			buf.Data16[isamp*2] = clampInt16(iAcc)
			buf.Data16[isamp*2+1] = clampInt16(qAcc)
		} else {
			buf.Data8[isamp*2] = clampInt8(iAcc)
			buf.Data8[isamp*2+1] = clampInt8(qAcc)
		}
	}
	buf.ValidLength = sink.NumIqSamples * 2
	s.pool.Enqueue(buf)

	s.grx = s.grx.Add(EpochSeconds)
	return nil
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func clampInt8(v float64) int8 {
	scaled := v / 16.0 // 16x12-bit headroom down to an 8-bit wire sample
	if scaled > 127 {
		return 127
	}
	if scaled < -128 {
		return -128
	}
	return int8(scaled)
}

// Run drives StepEpoch/RefreshNavAndEphemeris once every EpochSeconds
// for numEpochs epochs, sourcing receiver position from positionAt(i),
// until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context, numEpochs int, positionAt func(epoch int) gnsstime.Ecef) error {
	s.AllocateChannels(positionAt(0))

	igrx := int(s.grx.Sec*10.0 + 0.5)
	for epoch := 0; epoch < numEpochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		xyz := positionAt(epoch)
		if err := s.StepEpoch(xyz); err != nil {
			return err
		}

		igrx = int(s.grx.Sec*10.0 + 0.5)
		if igrx%NavRefreshEpochs == 0 {
			s.RefreshNavAndEphemeris(xyz)
		}
	}
	return nil
}

// StaticPosition returns a positionAt callback that always returns the
// same ECEF location, for scenarios with no motion file.
func StaticPosition(xyz gnsstime.Ecef) func(int) gnsstime.Ecef {
	return func(int) gnsstime.Ecef { return xyz }
}

// MotionPosition returns a positionAt callback sourcing receiver
// position from a loaded motion-file track, holding the last point once
// the track is exhausted.
func MotionPosition(points []motion.Point) func(int) gnsstime.Ecef {
	return func(epoch int) gnsstime.Ecef {
		if len(points) == 0 {
			return gnsstime.Ecef{}
		}
		if epoch >= len(points) {
			epoch = len(points) - 1
		}
		return points[epoch].Xyz
	}
}
