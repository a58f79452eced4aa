package sink

import (
	"github.com/Mictronics/multi-sdr-gps-sim/internal/fifo"
)

// HackRFSink is the backend shape for a HackRF One transmitter: fixed
// transfer buffer size, sample rate/frequency/gain tuned once at Init,
// then a tx callback draining the fifo pool. The actual USB transfer is
// out of scope for this module (no libusb/hackrf binding ships in the
// retrieval pack); Run reports ErrUnsupported.
//
// Grounded on original_source/sdr_hackrf.c for the init/gain/transfer
// shape (hackrf_set_sample_rate, hackrf_set_freq, hackrf_set_txvga_gain,
// HACKRF_TRANSFER_BUFFER_SIZE).
type HackRFSink struct {
	pool   *fifo.Pool
	txGain int
}

func NewHackRFSink(txGainDb int) *HackRFSink {
	return &HackRFSink{txGain: txGainDb}
}

func (s *HackRFSink) Init(sampleSize SampleSize) error {
	s.pool = fifo.New(NumFifoBuffers, HackrfTransferBufferSize/int(sampleSize/8), sampleSize == SC16)
	return nil
}

func (s *HackRFSink) Run() error { return ErrUnsupported }

func (s *HackRFSink) SetGain(gainDb int) error {
	s.txGain = gainDb
	return nil
}

func (s *HackRFSink) SampleHeadroom() float64 { return 1.0 }

func (s *HackRFSink) Close() error { return nil }

func (s *HackRFSink) Pool() *fifo.Pool { return s.pool }
