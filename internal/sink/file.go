package sink

import (
	"bufio"
	"encoding/binary"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/fifo"
)

// FileSink writes the IQ stream to a flat binary file, one writer
// goroutine dequeuing fifo buffers as fast as they arrive.
//
// Grounded on original_source/sdr_iqfile.c's iqfile_thread_ep.
type FileSink struct {
	path       string
	sampleSize SampleSize

	pool *fifo.Pool
	f    *os.File
	w    *bufio.Writer

	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	writeErr error
}

// NewFileSink creates a file sink that writes to path once Init/Run are
// called.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Init(sampleSize SampleSize) error {
	s.sampleSize = sampleSize
	f, err := os.Create(s.path)
	if err != nil {
		return errors.Wrapf(err, "create iq data file %s", s.path)
	}
	s.f = f
	s.w = bufio.NewWriterSize(f, 1<<20)
	s.pool = fifo.New(NumFifoBuffers, IqBufferSize, sampleSize == SC16)
	s.done = make(chan struct{})
	return nil
}

func (s *FileSink) Run() error {
	s.pool.WaitFull()
	s.wg.Add(1)
	go s.writeLoop()
	return nil
}

func (s *FileSink) writeLoop() {
	defer s.wg.Done()
	for {
		buf := s.pool.Dequeue()
		if buf == nil {
			return
		}
		if err := s.writeBuf(buf); err != nil {
			s.mu.Lock()
			if s.writeErr == nil {
				s.writeErr = errors.Wrap(ErrBackendFailed, err.Error())
			}
			s.mu.Unlock()
		}
		s.pool.Release(buf)
	}
}

func (s *FileSink) writeBuf(buf *fifo.Buf) error {
	if s.sampleSize == SC16 {
		return binary.Write(s.w, binary.LittleEndian, buf.Data16[:buf.ValidLength])
	}
	_, err := s.w.Write(byteSlice(buf.Data8[:buf.ValidLength]))
	return err
}

func byteSlice(s []int8) []byte {
	b := make([]byte, len(s))
	for i, v := range s {
		b[i] = byte(v)
	}
	return b
}

func (s *FileSink) SetGain(int) error { return ErrUnsupported }

func (s *FileSink) SampleHeadroom() float64 { return 1.0 }

func (s *FileSink) Close() error {
	// Let the writer goroutine drain whatever is already queued before
	// halting, so a shutdown doesn't silently drop buffered samples that
	// were never written.
	s.pool.WaitEmpty()
	s.pool.Halt()
	s.wg.Wait()
	if err := s.w.Flush(); err != nil {
		return errors.Wrap(err, "flush iq data file")
	}
	return s.f.Close()
}

func (s *FileSink) Pool() *fifo.Pool { return s.pool }

// WriteErr returns the first write error encountered by the writer
// goroutine, if any.
func (s *FileSink) WriteErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}
