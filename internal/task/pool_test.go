package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReturnsValue(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	f := Submit(p, "answer", func(context.Context) (int, error) { return 42, nil })
	v, err := f.Wait(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestSubmitPropagatesError(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	boom := errors.New("boom")
	_, err := Submit(p, "fail", func(context.Context) (string, error) { return "", boom }).Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSubmitRecoversPanic(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	_, err := Submit(p, "panics", func(context.Context) (int, error) { panic("bad") }).Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panics")

	// Worker survives the panic.
	v, err := Submit(p, "after", func(context.Context) (int, error) { return 7, nil }).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestWaitHonorsContextButTaskContinues(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	release := make(chan struct{})
	var finished atomic.Bool
	f := Submit(p, "slow", func(context.Context) (int, error) {
		<-release
		finished.Store(true)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.True(t, finished.Load())
}

func TestSubmitAfterClose(t *testing.T) {
	p := NewPool(1)
	p.Close()
	p.Close()

	_, err := Submit(p, "late", func(context.Context) (int, error) { return 1, nil }).Wait(context.Background())
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestThenAndResolved(t *testing.T) {
	got := make(chan string, 1)
	Resolved("ok", nil).Then(func(v string, err error) {
		assert.NoError(t, err)
		got <- v
	})
	select {
	case v := <-got:
		assert.Equal(t, "ok", v)
	case <-time.After(time.Second):
		t.Fatal("Then callback not invoked")
	}
}

func TestCloseDrainsQueuedTasks(t *testing.T) {
	p := NewPool(1)
	var count atomic.Int32
	futures := make([]*Future[int], 0, 5)
	for i := 0; i < 5; i++ {
		futures = append(futures, Submit(p, "count", func(context.Context) (int, error) {
			count.Add(1)
			return 0, nil
		}))
	}
	p.Close()
	assert.Equal(t, int32(5), count.Load())
	for _, f := range futures {
		select {
		case <-f.Done():
		default:
			t.Fatal("future not completed after Close")
		}
	}
}
