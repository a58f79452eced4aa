// Package fifo is a bounded, reusable IQ-sample buffer pool: a fixed
// number of preallocated buffers circulate between a freelist and a
// single-producer/single-consumer queue, so the baseband generator and
// the SDR sink never allocate in their hot paths.
//
// Grounded on original_source/fifo.c/fifo.h, one-to-one: the same four
// condition variables (not-empty, empty, free-available, full) guarding
// the same freelist/queue pair, and the same halt-drains-queue-to-
// freelist behavior.
package fifo

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrHalted is returned by callers that need to distinguish a halted
// pool from a successful zero-work result, e.g. a generator loop
// stopping because its sink shut down rather than because it finished.
var ErrHalted = errors.New("fifo: pool halted")

// Buf is one IQ sample buffer. Exactly one of Data8/Data16 is non-nil,
// selected at Pool creation by sampleSize, matching iq_buf's
// union-by-convention data8/data16 fields.
type Buf struct {
	Data8       []int8
	Data16      []int16
	TotalLength int
	ValidLength int

	next *Buf
}

// Pool is the buffer-pool/queue pair. The zero value is not usable; use
// New.
type Pool struct {
	mu sync.Mutex

	notEmpty *sync.Cond
	empty    *sync.Cond
	free     *sync.Cond
	full     *sync.Cond

	head, tail *Buf
	freelist   *Buf
	halted     bool
}

// New preallocates bufferCount buffers of bufferSize samples, using a
// 16-bit sample per element when sampleSize16 is true and 8-bit
// otherwise.
func New(bufferCount, bufferSize int, sampleSize16 bool) *Pool {
	p := &Pool{}
	p.notEmpty = sync.NewCond(&p.mu)
	p.empty = sync.NewCond(&p.mu)
	p.free = sync.NewCond(&p.mu)
	p.full = sync.NewCond(&p.mu)

	for i := 0; i < bufferCount; i++ {
		buf := &Buf{TotalLength: bufferSize}
		if sampleSize16 {
			buf.Data16 = make([]int16, bufferSize)
		} else {
			buf.Data8 = make([]int8, bufferSize)
		}
		buf.next = p.freelist
		p.freelist = buf
	}
	return p
}

// WaitEmpty blocks until the queue has drained to empty, or the pool is
// halted.
func (p *Pool) WaitEmpty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.head != nil && !p.halted {
		p.empty.Wait()
	}
}

// WaitFull blocks until a producer's Acquire has found the freelist
// empty, or the pool is halted.
func (p *Pool) WaitFull() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.halted {
		p.full.Wait()
	}
}

// Halt marks the pool as halted, moving every queued buffer back onto
// the freelist and waking every waiter. Acquire/Dequeue return nil from
// then on.
func (p *Pool) Halt() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.head != nil {
		freebuf := p.head
		p.head = freebuf.next
		freebuf.next = p.freelist
		p.freelist = freebuf
	}
	p.tail = nil
	p.halted = true

	p.notEmpty.Broadcast()
	p.empty.Broadcast()
	p.free.Broadcast()
	p.full.Broadcast()
}

// Acquire removes a buffer from the freelist, blocking if none is
// available, and returns it with ValidLength reset to zero. It returns
// nil if the pool is halted.
func (p *Pool) Acquire() *Buf {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.halted && p.freelist == nil {
		p.full.Signal()
		p.free.Wait()
	}

	if p.halted {
		return nil
	}

	result := p.freelist
	p.freelist = result.next
	result.ValidLength = 0
	result.next = nil
	return result
}

// Enqueue places a filled buffer (previously returned by Acquire) onto
// the tail of the queue, or back onto the freelist immediately if the
// pool has been halted.
func (p *Pool) Enqueue(buf *Buf) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.halted {
		buf.next = p.freelist
		p.freelist = buf
		return
	}

	buf.next = nil
	if p.head == nil {
		p.head, p.tail = buf, buf
		p.notEmpty.Signal()
	} else {
		p.tail.next = buf
		p.tail = buf
	}
}

// Dequeue removes a buffer from the head of the queue, blocking until
// one arrives. It returns nil if the pool is halted.
func (p *Pool) Dequeue() *Buf {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.head == nil && !p.halted {
		p.notEmpty.Wait()
	}

	if p.halted {
		return nil
	}

	result := p.head
	p.head = result.next
	result.next = nil
	if p.head == nil {
		p.tail = nil
		p.empty.Broadcast()
	}
	return result
}

// Release returns a buffer (previously returned by Dequeue) to the
// freelist.
func (p *Pool) Release(buf *Buf) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.freelist == nil {
		p.free.Signal()
	}
	buf.next = p.freelist
	p.freelist = buf
}
