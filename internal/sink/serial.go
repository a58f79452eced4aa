package sink

import (
	"io"
	"sync"

	serial "github.com/tarm/goserial"

	"github.com/pkg/errors"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/fifo"
)

// SerialSink streams IQ samples to a serial-attached front end (an
// external modulator board rather than a USB SDR), one writer goroutine
// dequeuing fifo buffers as they fill.
//
// Grounded on FengXuebin-gnssgo/src/stream.go's OpenSerial for the
// goserial.Config/OpenPort idiom, adapted from a bidirectional
// receiver stream to a write-only transmit sink.
type SerialSink struct {
	port string
	baud int

	sampleSize SampleSize
	conn       io.ReadWriteCloser
	pool       *fifo.Pool

	wg sync.WaitGroup

	mu       sync.Mutex
	writeErr error
}

// NewSerialSink creates a serial sink targeting port at baud bits/s.
func NewSerialSink(port string, baud int) *SerialSink {
	return &SerialSink{port: port, baud: baud}
}

func (s *SerialSink) Init(sampleSize SampleSize) error {
	s.sampleSize = sampleSize
	conn, err := serial.OpenPort(&serial.Config{Name: s.port, Baud: s.baud})
	if err != nil {
		return errors.Wrapf(err, "open serial port %s", s.port)
	}
	s.conn = conn
	s.pool = fifo.New(NumFifoBuffers, IqBufferSize, sampleSize == SC16)
	return nil
}

func (s *SerialSink) Run() error {
	s.pool.WaitFull()
	s.wg.Add(1)
	go s.writeLoop()
	return nil
}

func (s *SerialSink) writeLoop() {
	defer s.wg.Done()
	for {
		buf := s.pool.Dequeue()
		if buf == nil {
			return
		}
		if _, err := s.conn.Write(asBytes(buf, s.sampleSize)); err != nil {
			s.mu.Lock()
			if s.writeErr == nil {
				s.writeErr = errors.Wrap(ErrBackendFailed, err.Error())
			}
			s.mu.Unlock()
		}
		s.pool.Release(buf)
	}
}

func asBytes(buf *fifo.Buf, sampleSize SampleSize) []byte {
	if sampleSize == SC16 {
		b := make([]byte, len(buf.Data16[:buf.ValidLength])*2)
		for i, v := range buf.Data16[:buf.ValidLength] {
			b[2*i] = byte(v)
			b[2*i+1] = byte(v >> 8)
		}
		return b
	}
	b := make([]byte, buf.ValidLength)
	for i, v := range buf.Data8[:buf.ValidLength] {
		b[i] = byte(v)
	}
	return b
}

func (s *SerialSink) SetGain(int) error { return ErrUnsupported }

func (s *SerialSink) SampleHeadroom() float64 { return 1.0 }

func (s *SerialSink) Close() error {
	// Let the writer goroutine drain whatever is already queued before
	// halting, so a shutdown doesn't silently drop buffered samples that
	// were never written.
	s.pool.WaitEmpty()
	s.pool.Halt()
	s.wg.Wait()
	return s.conn.Close()
}

func (s *SerialSink) Pool() *fifo.Pool { return s.pool }

// WriteErr returns the first write error encountered by the writer
// goroutine, if any.
func (s *SerialSink) WriteErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}
