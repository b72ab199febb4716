package window

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferComplete(t *testing.T) {
	w := New[string](2)
	f, err := w.Offer(42, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Size())
	assert.Equal(t, 1, w.AvailableSlots())

	ok := w.Complete(42, "submit_sm_resp")
	assert.True(t, ok)

	val, err := f.Await(time.After(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "submit_sm_resp", val)
	assert.True(t, w.IsEmpty())
	assert.Equal(t, 2, w.AvailableSlots())
}

func TestTryOfferBackpressure(t *testing.T) {
	w := New[int](2)
	_, ok1, err := w.TryOffer(1)
	require.NoError(t, err)
	require.True(t, ok1)
	_, ok2, err := w.TryOffer(2)
	require.NoError(t, err)
	require.True(t, ok2)

	_, ok3, err := w.TryOffer(3)
	require.NoError(t, err)
	assert.False(t, ok3, "window is full, third tryOffer must fail")

	assert.True(t, w.Complete(1, 100))

	f4, ok4, err := w.TryOffer(4)
	require.NoError(t, err)
	assert.True(t, ok4, "freed slot should let a fourth tryOffer succeed")
	assert.True(t, w.Complete(4, 400))
	v, err := f4.Await(time.After(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 400, v)
}

func TestOfferTimesOutWhenFull(t *testing.T) {
	w := New[int](1)
	_, err := w.Offer(1, time.Second)
	require.NoError(t, err)

	_, err = w.Offer(2, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDuplicateSequence(t *testing.T) {
	w := New[int](2)
	_, err := w.Offer(7, time.Second)
	require.NoError(t, err)

	_, err = w.Offer(7, time.Second)
	var dup ErrDuplicateSeq
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 2, w.AvailableSlots(), "rejected duplicate offer must not consume a slot")
}

func TestFailAndCancel(t *testing.T) {
	w := New[int](2)
	f, err := w.Offer(1, time.Second)
	require.NoError(t, err)
	assert.True(t, w.Fail(1, errCustom))
	_, err = f.Await(time.After(time.Second))
	assert.ErrorIs(t, err, errCustom)

	_, err = w.Offer(2, time.Second)
	require.NoError(t, err)
	assert.True(t, w.Cancel(2))
	assert.True(t, w.IsEmpty())

	assert.False(t, w.Fail(99, errCustom), "failing an unknown sequence is a no-op")
}

func TestExpireOldRequests(t *testing.T) {
	w := New[int](4)
	f, err := w.Offer(1, time.Second)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = w.Offer(2, time.Second)
	require.NoError(t, err)

	n := w.ExpireOldRequests(10 * time.Millisecond)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, w.Size())

	_, err = f.Await(time.After(time.Second))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCancelAll(t *testing.T) {
	w := New[int](4)
	futures := make([]Future[int], 0, 3)
	for seq := uint32(1); seq <= 3; seq++ {
		f, err := w.Offer(seq, time.Second)
		require.NoError(t, err)
		futures = append(futures, f)
	}

	n := w.CancelAll(errCustom)
	assert.Equal(t, 3, n)
	assert.True(t, w.IsEmpty())
	assert.Equal(t, w.MaxSize(), w.AvailableSlots())

	for _, f := range futures {
		_, err := f.Await(time.After(time.Second))
		assert.ErrorIs(t, err, errCustom)
	}
}

func TestClose(t *testing.T) {
	w := New[int](2)
	f, err := w.Offer(1, time.Second)
	require.NoError(t, err)

	w.Close()
	assert.True(t, w.IsClosed())

	_, err = f.Await(time.After(time.Second))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = w.Offer(2, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrClosed)

	_, ok, err := w.TryOffer(3)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrClosed)

	// Closing twice must not panic or double-reap.
	w.Close()
}

func TestSlotConservationUnderConcurrency(t *testing.T) {
	const maxSize = 8
	w := New[int](maxSize)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(seq uint32) {
			defer wg.Done()
			f, ok, err := w.TryOffer(seq)
			if err != nil || !ok {
				return
			}
			assert.LessOrEqual(t, w.Size()+w.AvailableSlots(), maxSize)
			w.Complete(seq, int(seq))
			f.Await(time.After(time.Second))
		}(uint32(i) + 1000)
	}
	wg.Wait()

	assert.Equal(t, maxSize, w.Size()+w.AvailableSlots())
	assert.True(t, w.IsEmpty())
}

var errCustom = assert.AnError
