package sink

import (
	"github.com/Mictronics/multi-sdr-gps-sim/internal/fifo"
)

// PlutoSink is the backend shape for an ADALM-Pluto transmitter,
// configured via IIO channel attributes (rf_port_select, rf_bandwidth,
// sampling_frequency, hardwaregain) rather than a vendor SDK call. As
// with HackRFSink, the actual IIO device I/O is out of scope (no libiio
// binding ships in the retrieval pack); Run reports ErrUnsupported.
//
// Grounded on original_source/sdr_pluto.c's sdr_pluto_init/sdr_pluto_run.
type PlutoSink struct {
	pool     *fifo.Pool
	hwGainDb int
}

func NewPlutoSink(hwGainDb int) *PlutoSink {
	return &PlutoSink{hwGainDb: hwGainDb}
}

func (s *PlutoSink) Init(sampleSize SampleSize) error {
	s.pool = fifo.New(NumFifoBuffers, IqBufferSize, sampleSize == SC16)
	return nil
}

func (s *PlutoSink) Run() error { return ErrUnsupported }

func (s *PlutoSink) SetGain(gainDb int) error {
	s.hwGainDb = gainDb
	return nil
}

func (s *PlutoSink) Close() error { return nil }

// SampleHeadroom doubles the generator's output scale for Pluto's 12-bit
// DAC, which has more headroom above the path-loss/antenna-gain-scaled
// signal than HackRF's 8-bit path.
func (s *PlutoSink) SampleHeadroom() float64 { return 2.0 }

func (s *PlutoSink) Pool() *fifo.Pool { return s.pool }
