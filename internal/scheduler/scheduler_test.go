package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNow_CountsRunsAndFailures(t *testing.T) {
	t.Parallel()

	fail := true
	s := NewScheduler(context.Background(), "report", func(context.Context) error {
		if fail {
			return errors.New("upstream down")
		}
		return nil
	})

	s.RunNow()
	fail = false
	s.RunNow()

	assert.Equal(t, int64(2), s.Runs())
	assert.Equal(t, int64(1), s.Failures())
}

func TestRunNow_SkipsAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	s := NewScheduler(ctx, "report", func(context.Context) error {
		called = true
		return nil
	})

	s.RunNow()

	assert.False(t, called)
	assert.Zero(t, s.Runs())
}

func TestRegister_InvalidSpec(t *testing.T) {
	t.Parallel()

	s := NewScheduler(context.Background(), "report", func(context.Context) error { return nil })
	assert.Error(t, s.Register("not a cron spec"))
	// five-field specs are rejected: the seconds field is required
	assert.Error(t, s.Register("0 18 * * 1-5"))
	assert.NoError(t, s.Register("0 30 18 * * 1-5"))
}

func TestScheduler_FiresAndSurvivesFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	s := NewScheduler(context.Background(), "report", func(context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})
	require.NoError(t, s.Register("@every 1s"))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	assert.GreaterOrEqual(t, s.Failures(), int64(2))
}

func TestScheduler_RunNowAndFiringsNeverOverlap(t *testing.T) {
	t.Parallel()

	var active, maxActive, calls atomic.Int64
	s := NewScheduler(context.Background(), "report", func(context.Context) error {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		calls.Add(1)
		time.Sleep(2500 * time.Millisecond)
		active.Add(-1)
		return nil
	})
	require.NoError(t, s.Register("@every 1s"))

	s.Start()
	go s.RunNow()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 10*time.Second, 50*time.Millisecond)
	s.Stop()

	assert.Equal(t, int64(1), maxActive.Load())
	assert.Positive(t, s.Skipped())
}

func TestRunNow_SkipsWhileRunning(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	s := NewScheduler(context.Background(), "report", func(context.Context) error {
		close(started)
		<-release
		return nil
	})

	done := make(chan struct{})
	go func() {
		s.RunNow()
		close(done)
	}()
	<-started

	s.RunNow()
	close(release)
	<-done

	assert.Equal(t, int64(1), s.Runs())
	assert.Equal(t, int64(1), s.Skipped())
}
