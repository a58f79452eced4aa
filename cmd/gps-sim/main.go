// Command gps-sim generates a GPS L1 C/A baseband IQ sample stream from
// RINEX navigation data, for driving an SDR transmitter or a file
// capture consumed by another tool.
//
// Grounded on original_source/gps-sim.c's main() startup sequence
// (parse options, load ephemeris/almanac, init sink, start generator,
// wait for termination) and FengXuebin-gnssgo/app/rtkrcv/rtkrcv.go's
// signal.Notify shutdown wiring.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/almanac"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/config"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/ephemeris"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/fetch"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/fifo"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/gnsstime"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/motion"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/scheduler"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/sink"
	"github.com/Mictronics/multi-sdr-gps-sim/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gps-sim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opt := config.Default()

	// A config file, when given, becomes the new baseline default before
	// flags are bound to it, so flag.Parse's normal "flag overrides
	// default" behavior gives command-line options precedence over the
	// file, matching rnx2rtkp's "-k file" semantics. This needs the
	// config path before the rest of the flags are even registered,
	// hence the manual pre-scan rather than a second flag.Parse pass.
	if path := scanConfigFlag(os.Args[1:]); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		opt = loaded
	}

	flag.String("config", "", "YAML configuration file (flags below override it)")
	config.BindFlags(flag.CommandLine, &opt)
	flag.Parse()

	if err := opt.Validate(); err != nil {
		return err
	}

	runID := uuid.New().String()
	log := telemetry.NewLogger(os.Stderr, opt.TraceLevel)
	log.Trace(1, "gps-sim run %s starting\n", runID)

	if opt.NavFile == "" && opt.StationID != "" {
		navPath, err := fetchNavFile(opt.StationID)
		if err != nil {
			return errors.Wrap(err, "fetching nav file")
		}
		opt.NavFile = navPath
	}

	ephStore, err := ephemeris.Load(opt.NavFile)
	if err != nil {
		return errors.Wrap(err, "loading ephemeris")
	}

	var almStore *almanac.Store
	if opt.AlmanacEnable && opt.AlmanacFile != "" {
		almStore, err = almanac.Load(opt.AlmanacFile)
		if err != nil {
			return errors.Wrap(err, "loading almanac")
		}
	}

	var start gnsstime.GpsTime
	if opt.TimeOverwrite && opt.StartTime != "" {
		t, err := time.Parse(time.RFC3339, opt.StartTime)
		if err != nil {
			return errors.Wrap(err, "parsing start_time")
		}
		start = gnsstime.FromTime(t)
		ephStore.OverwriteTime(start)
	} else {
		start = gnsstime.FromTime(time.Now().UTC())
	}

	if almStore != nil {
		if err := almStore.CheckToaSkew(start); err != nil {
			return errors.Wrap(err, "validating almanac")
		}
	}

	ieph := ephStore.SelectSet(start)

	sdrSink, err := buildSink(opt)
	if err != nil {
		return err
	}
	sampleSize := sink.SC16
	if opt.SampleBits == 8 {
		sampleSize = sink.SC08
	}
	if err := sdrSink.Init(sampleSize); err != nil {
		return errors.Wrap(err, "initializing sink")
	}
	if err := sdrSink.SetGain(opt.TxGain); err != nil && !stderrors.Is(err, sink.ErrUnsupported) {
		return errors.Wrap(err, "setting gain")
	}

	positionAt, numEpochs, err := buildTrajectory(opt, start)
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Config{
		ElevationMaskDeg: opt.ElevationMaskDeg,
		IonosphereEnable: opt.IonosphereEnable,
		SampleSize:       sampleSize,
		GainScale:        sdrSink.SampleHeadroom(),
	}, ephStore, almStore, ieph, start, sdrSink.Pool())

	metrics := telemetry.NewMetrics()
	var metricsSrv *http.Server
	if opt.MetricsAddr != "" {
		metricsSrv = &http.Server{Addr: opt.MetricsAddr, Handler: metrics.Handler()}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Trace(2, "metrics server error: %v\n", err)
			}
		}()
	}
	if opt.PushgatewayURL != "" {
		metrics.EnablePush(opt.PushgatewayURL, "gps_sim_"+runID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigc
		log.Trace(1, "received signal %v, stopping\n", s)
		cancel()
	}()

	// The generator starts producing before the sink starts consuming,
	// matching original_source/gps-sim.c's ordering: gps_thread_ep runs
	// first, then sdr_run()'s fifo_wait_full() blocks until the pool has
	// backed up before transmission begins.
	schedErr := make(chan error, 1)
	go func() {
		schedErr <- sched.Run(ctx, numEpochs, positionAt)
	}()

	if err := sdrSink.Run(); err != nil {
		cancel()
		<-schedErr
		return errors.Wrap(err, "starting sink")
	}

	runErr := <-schedErr

	cancel()
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if err := sdrSink.Close(); err != nil {
		log.Trace(1, "sink close error: %v\n", err)
	}

	if runErr != nil && !stderrors.Is(runErr, context.Canceled) && !stderrors.Is(runErr, fifo.ErrHalted) {
		return errors.Wrap(runErr, "scheduler run")
	}
	return nil
}

// fetchNavFile looks up a station by ID and downloads its current
// broadcast navigation file to a temp path that ephemeris.Load can read.
func fetchNavFile(stationID string) (string, error) {
	station, rinex3, ok := fetch.Lookup(stationID)
	if !ok {
		return "", errors.Errorf("unknown IGS station %q", stationID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, err := fetch.NewClient().FetchNav(ctx, station, rinex3, time.Now().UTC())
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "gps-sim-nav-*.rnx")
	if err != nil {
		return "", errors.Wrap(err, "creating temp nav file")
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return "", errors.Wrap(err, "writing temp nav file")
	}
	return f.Name(), nil
}

func buildSink(opt config.Options) (sink.SdrSink, error) {
	switch opt.SdrType {
	case config.SdrFile:
		path := opt.SdrName
		if path == "" {
			path = "gps-sim.bin"
		}
		return sink.NewFileSink(path), nil
	case config.SdrHackRF:
		return sink.NewHackRFSink(opt.TxGain), nil
	case config.SdrPluto:
		return sink.NewPlutoSink(opt.TxGain), nil
	case config.SdrSerial:
		return sink.NewSerialSink(opt.SerialPort, opt.SerialBaud), nil
	default:
		return nil, errors.Errorf("unsupported sdr_type %q", opt.SdrType)
	}
}

// buildTrajectory resolves a motion file, a target bearing/distance, or
// a static location into a scheduler position source and the number of
// 100ms epochs the run should cover.
func buildTrajectory(opt config.Options, start gnsstime.GpsTime) (func(int) gnsstime.Ecef, int, error) {
	numEpochs := opt.DurationSec * 10

	if opt.MotionFile != "" {
		points, err := motion.Load(opt.MotionFile)
		if err != nil {
			return nil, 0, errors.Wrap(err, "loading motion file")
		}
		if len(points) < numEpochs {
			numEpochs = len(points)
		}
		return scheduler.MotionPosition(points), numEpochs, nil
	}

	llh := gnsstime.Llh{
		Lat:    opt.Location.Lat * gnsstime.D2R,
		Lon:    opt.Location.Lon * gnsstime.D2R,
		Height: opt.Location.Height,
	}
	if opt.Target.Enabled {
		xyz := gnsstime.Destination(llh, opt.Target.BearingDeg*gnsstime.D2R, opt.Target.DistanceM, opt.Target.HeightM)
		return scheduler.StaticPosition(xyz), numEpochs, nil
	}
	return scheduler.StaticPosition(llh.ToEcef()), numEpochs, nil
}

// scanConfigFlag looks for -config/--config in args without invoking
// the flag package, since the config path must be known before the
// rest of the flags (whose defaults the file populates) are registered.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}
