package drainer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ctxsched/internal/clock"
	"github.com/viant/ctxsched/internal/idgen"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/progress"
	"github.com/viant/ctxsched/service/messaging/memory"
)

func TestService_Drain(t *testing.T) {
	polledAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	restoreNow, restoreID := clock.NowFunc, idgen.NewFunc
	clock.NowFunc = func() time.Time { return polledAt }
	idgen.NewFunc = func() string { return "batch-1" }
	defer func() { clock.NowFunc, idgen.NewFunc = restoreNow, restoreID }()

	broken := errors.New("device reset")
	testCases := []struct {
		description string
		count       uint32
		err         error
		expected    *Batch
		expectErr   error
		queued      int
		progress    progress.Delta
	}{
		{
			description: "completions are published",
			count:       3,
			expected:    &Batch{ID: "batch-1", Count: 3, Expected: 4, PolledAt: polledAt},
			queued:      1,
			progress:    progress.Delta{Polls: 1, Expected: 4, Completed: 3},
		},
		{
			description: "nothing collected",
			count:       0,
			progress:    progress.Delta{Polls: 1, Expected: 4},
		},
		{
			description: "collaborator failure after partial drain",
			count:       1,
			err:         broken,
			expected:    &Batch{ID: "batch-1", Count: 1, Expected: 4, PolledAt: polledAt},
			expectErr:   broken,
			queued:      1,
			progress:    progress.Delta{Polls: 1, Expected: 4, Completed: 1, Failed: 1},
		},
	}
	for _, testCase := range testCases {
		queue := memory.NewQueue[Batch](memory.DefaultConfig())
		poll := func(ctx context.Context, expect uint32) (uint32, error) {
			assert.EqualValues(t, 4, expect, testCase.description)
			return testCase.count, testCase.err
		}
		srv := New(poll, queue, Config{Interval: time.Millisecond, Expect: 4}, testr.New(t))
		ctx, tracker := progress.WithNewTracker(context.Background(), "RR scheduler", nil)
		batch, err := srv.Drain(ctx)
		if testCase.expectErr != nil {
			assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
		} else {
			assert.NoError(t, err, testCase.description)
		}
		assert.Equal(t, testCase.expected, batch, testCase.description)
		assert.Equal(t, testCase.queued, queue.Size(), testCase.description)
		snapshot := tracker.Snapshot()
		assert.Equal(t, testCase.progress, progress.Delta{Polls: snapshot.Polls, Expected: snapshot.Expected, Completed: snapshot.Completed, Failed: snapshot.Failed}, testCase.description)
	}
}

func TestService_Start(t *testing.T) {
	queue := memory.NewQueue[Batch](memory.Config{QueueBuffer: 100000})
	var polls atomic.Int32
	poll := func(ctx context.Context, expect uint32) (uint32, error) {
		polls.Add(1)
		return 1, nil
	}
	srv := New(poll, queue, Config{Interval: time.Millisecond, Expect: 1}, testr.New(t))
	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, message.T().Count)
		assert.NoError(t, message.Ack())
	}
	srv.Shutdown()
	srv.Shutdown()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("drainer did not stop")
	}
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}

func TestService_ShutdownWithFullQueue(t *testing.T) {
	queue := memory.NewQueue[Batch](memory.Config{QueueBuffer: 1})
	poll := func(ctx context.Context, expect uint32) (uint32, error) {
		return 1, nil
	}
	srv := New(poll, queue, Config{Interval: time.Millisecond, Expect: 1}, testr.New(t))
	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()

	require.Eventually(t, func() bool { return queue.Size() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	srv.Shutdown()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("drainer blocked on a full queue after shutdown")
	}
	assert.Equal(t, 1, queue.Size())
}

func TestService_StartCanceled(t *testing.T) {
	srv := New(func(context.Context, uint32) (uint32, error) { return 0, model.ErrTryAgain },
		memory.NewQueue[Batch](memory.DefaultConfig()), Config{}, testr.New(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, srv.Start(ctx), context.Canceled)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{Expect: 1}.Validate(), model.ErrInvalidArgument)
	assert.ErrorIs(t, Config{Interval: time.Second}.Validate(), model.ErrInvalidArgument)
}
