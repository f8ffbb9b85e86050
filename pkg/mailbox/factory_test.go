package mailbox

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpc/pkg/threadmgr"
)

func TestFactoryCreateVariants(t *testing.T) {
	f := newTestFactory(t, 2, 5)
	assert.Equal(t, 5, f.MailboxSize())
	require.NotNil(t, f.ThreadManager())

	cases := []struct {
		name     string
		mb       *Mailbox
		async    bool
		capacity int
	}{
		{"default", f.CreateMailbox(), false, 5},
		{"sized", f.CreateMailboxSize(7), false, 7},
		{"unbounded", f.CreateMailboxSize(0), false, 0},
		{"async", f.CreateAsyncMailbox(), true, 0},
		{"async sized", f.CreateAsyncMailboxSize(3), true, 3},
	}
	ids := map[uint64]struct{}{}
	for _, c := range cases {
		assert.Equal(t, c.async, c.mb.IsAsync(), c.name)
		assert.Equal(t, c.capacity, c.mb.Capacity(), c.name)
		assert.Same(t, f, c.mb.Factory(), c.name)
		assert.True(t, c.mb.IsEmpty(), c.name)
		ids[c.mb.ID()] = struct{}{}
	}
	assert.Len(t, ids, len(cases))

	named := f.NewMailbox(WithName("player"), WithCapacity(-1))
	assert.Equal(t, "player", named.Name())
	assert.Zero(t, named.Capacity())
}

func TestMailboxesDoNotShareQueues(t *testing.T) {
	f := newTestFactory(t, 1, 0)
	gate := make(chan struct{})
	require.NoError(t, f.ThreadManager().Process(func() { <-gate }))

	a := f.CreateAsyncMailbox()
	b := f.CreateAsyncMailbox()
	require.NoError(t, a.Post(func() {}))
	require.NoError(t, a.Post(func() {}))
	require.NoError(t, b.Post(func() {}))
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1, b.Len())
	close(gate)
}

func TestNewFactoryValidation(t *testing.T) {
	_, err := NewFactory(nil, 0)
	assert.Error(t, err)

	_, err = NewFactoryWithThreads(0, 0)
	assert.ErrorIs(t, err, threadmgr.ErrInvalidThreadCount)

	_, err = NewFactoryWithThreads(1, -1)
	assert.Error(t, err)

	manager, err := threadmgr.New(1)
	require.NoError(t, err)
	f, err := NewFactory(manager, 0, WithThroughputDefault(8))
	require.NoError(t, err)
	assert.Same(t, manager, f.ThreadManager())
	assert.Equal(t, 8, f.CreateMailbox().throughput)
	require.NoError(t, f.Close())
	assert.True(t, manager.IsClosed())
}

func TestFactoryCloseIsIdempotent(t *testing.T) {
	f, err := NewFactoryWithThreads(2, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestPostAfter(t *testing.T) {
	f := newTestFactory(t, 1, 0, WithTimerTick(time.Millisecond), WithTimerWheelSize(64))
	mb := f.CreateMailbox()

	done := make(chan struct{})
	start := time.Now()
	timer, err := mb.PostAfter(20*time.Millisecond, func() { close(done) })
	require.NoError(t, err)
	require.NotNil(t, timer)
	waitClosed(t, done, "delayed event not delivered")
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	var fired atomic.Bool
	cancelled, err := mb.PostAfter(time.Hour, func() { fired.Store(true) })
	require.NoError(t, err)
	assert.True(t, cancelled.Stop())
	assert.False(t, fired.Load())

	_, err = mb.PostAfter(time.Millisecond, nil)
	assert.ErrorIs(t, err, ErrEventIsNil)
}

func TestPostAfterClosed(t *testing.T) {
	f, err := NewFactoryWithThreads(1, 0)
	require.NoError(t, err)
	mb := f.CreateMailbox()
	require.NoError(t, f.Close())

	_, err = mb.PostAfter(time.Millisecond, func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)

	mb2 := newTestFactory(t, 1, 0).CreateMailbox()
	mb2.Close()
	_, err = mb2.PostAfter(time.Millisecond, func() {})
	assert.ErrorIs(t, err, ErrMailboxClosed)
}
