// Package sink defines the SdrSink interface every IQ output backend
// implements, plus a file sink and the minimal HackRF/Pluto/serial
// backend shapes.
//
// Grounded on original_source/sdr.h (interface shape), sdr_iqfile.c
// (file sink dequeue/write/release loop), sdr_hackrf.c/sdr_pluto.c
// (transfer-size/gain-set shape only -- the libusb/libiio device calls
// themselves are out of scope).
package sink

import (
	"github.com/pkg/errors"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/fifo"
)

// TxFrequency is the GPS L1 carrier frequency in Hz.
const TxFrequency = 1575420000

// TxSampleRate is the baseband sample rate in Hz: 1023 chips * 2560.
const TxSampleRate = 2618880

// NumIqSamples is the number of IQ samples generated per 100ms epoch.
const NumIqSamples = TxSampleRate / 10

// IqBufferSize is NumIqSamples worth of I and Q elements.
const IqBufferSize = NumIqSamples * 2

// NumFifoBuffers is the number of preallocated transfer buffers the
// fifo pool carries between the generator and a sink's writer.
const NumFifoBuffers = 8

// HackrfTransferBufferSize is libhackrf's fixed USB transfer chunk size.
const HackrfTransferBufferSize = 262144

// SampleSize selects the sink's on-wire sample width.
type SampleSize int

const (
	SC08 SampleSize = 8
	SC16 SampleSize = 16
)

// SdrSink is the backend every IQ output target implements: a file, a
// HackRF, a Pluto SDR, or a serial-attached device.
type SdrSink interface {
	// Init allocates the sink's fifo pool and any device handle.
	Init(sampleSize SampleSize) error
	// Run starts transmission/writing. The file and serial sinks first
	// block in fifo.Pool.WaitFull until the producer has drained the
	// freelist; the HackRF and Pluto sinks return ErrUnsupported.
	Run() error
	// SetGain adjusts the transmit/attenuation gain where the backend
	// supports it.
	SetGain(gainDb int) error
	// Close stops the sink and releases its resources.
	Close() error
	// Pool returns the fifo pool the baseband generator feeds.
	Pool() *fifo.Pool
	// SampleHeadroom returns the linear scale factor the generator should
	// apply on top of path-loss/antenna gain to use this backend's full
	// output range, e.g. Pluto's wider 12-bit DAC over HackRF's 8-bit path.
	SampleHeadroom() float64
}

// ErrUnsupported is returned by SetGain on sinks with no adjustable
// gain (the file sink) and by backend stubs the core doesn't drive
// directly (HackRF/Pluto's actual device I/O is outside this module's
// scope; see internal/sink's hackrf.go/pluto.go).
var ErrUnsupported = errors.New("sink: operation not supported by this backend")

// ErrBackendFailed wraps a write/transfer failure from a sink's
// backend (disk, serial port, device) reported through WriteErr.
var ErrBackendFailed = errors.New("sink: backend write failed")
