package fifo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/fifo"
)

func TestAcquireEnqueueDequeueRelease(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	p := fifo.New(2, 16, true)

	buf := p.Acquire()
	require.NotNil(buf)
	assert.Equal(16, buf.TotalLength)
	assert.Equal(0, buf.ValidLength)

	buf.ValidLength = 16
	p.Enqueue(buf)

	out := p.Dequeue()
	require.NotNil(out)
	assert.Equal(16, out.ValidLength)

	p.Release(out)

	second := p.Acquire()
	require.NotNil(second)
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	require := require.New(t)
	p := fifo.New(1, 4, false)

	done := make(chan *fifo.Buf, 1)
	go func() {
		done <- p.Dequeue()
	}()

	time.Sleep(20 * time.Millisecond)
	buf := p.Acquire()
	require.NotNil(buf)
	p.Enqueue(buf)

	select {
	case got := <-done:
		require.NotNil(got)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not unblock after enqueue")
	}
}

func TestHaltWakesWaitersAndDrainsQueue(t *testing.T) {
	assert := assert.New(t)

	p := fifo.New(1, 4, false)

	done := make(chan *fifo.Buf, 1)
	go func() {
		done <- p.Dequeue()
	}()
	time.Sleep(20 * time.Millisecond)

	p.Halt()

	select {
	case got := <-done:
		assert.Nil(got, "dequeue should return nil once halted")
	case <-time.After(time.Second):
		t.Fatal("halt did not wake blocked dequeue")
	}

	assert.Nil(p.Acquire())
	assert.Nil(p.Dequeue())
}

func TestWaitEmptyBlocksUntilQueueDrains(t *testing.T) {
	require := require.New(t)
	p := fifo.New(1, 4, false)

	buf := p.Acquire()
	require.NotNil(buf)
	p.Enqueue(buf)

	done := make(chan struct{})
	go func() {
		p.WaitEmpty()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitEmpty returned before the queue drained")
	case <-time.After(20 * time.Millisecond):
	}

	out := p.Dequeue()
	require.NotNil(out)
	p.Release(out)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitEmpty did not unblock once the queue drained")
	}
}

func TestWaitEmptyReturnsImmediatelyOnHalt(t *testing.T) {
	p := fifo.New(1, 4, false)
	p.Halt()

	done := make(chan struct{})
	go func() {
		p.WaitEmpty()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitEmpty did not return once the pool was halted")
	}
}

func TestWaitFullUnblocksWhenFreelistExhausted(t *testing.T) {
	require := require.New(t)
	p := fifo.New(1, 4, false)

	// Drain the lone buffer so the freelist is already empty; the next
	// Acquire call will find it empty and signal full before blocking.
	first := p.Acquire()
	require.NotNil(first)

	done := make(chan struct{})
	go func() {
		p.WaitFull()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)

	second := make(chan *fifo.Buf, 1)
	go func() {
		second <- p.Acquire()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitFull did not unblock once the freelist was exhausted")
	}

	// Release the first buffer back so the pending Acquire above can
	// complete, then return its result too.
	p.Release(first)
	require.NotNil(<-second)
}

func TestWaitFullReturnsImmediatelyOnHalt(t *testing.T) {
	p := fifo.New(1, 4, false)
	p.Halt()

	done := make(chan struct{})
	go func() {
		p.WaitFull()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitFull did not return once the pool was halted")
	}
}
