package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Add(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Add("disabled", "", func(context.Context) {}))
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Add("reload", "@every 1h", func(context.Context) {}))
	assert.Equal(t, 1, s.Len())

	err := s.Add("broken", "not a schedule", func(context.Context) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestScheduler_RunsAndStops(t *testing.T) {
	s := New(nil)
	var runs atomic.Int32
	canceled := make(chan struct{})

	require.NoError(t, s.Add("tick", "@every 1s", func(ctx context.Context) {
		if runs.Add(1) == 1 {
			<-ctx.Done()
			close(canceled)
		}
	}))
	s.Start()

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	select {
	case <-canceled:
	default:
		t.Fatal("job context was not canceled on stop")
	}
}
