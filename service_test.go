package ctxsched_test

import (
	"context"
	"embed"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/ctxsched"
	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/policy"
	"github.com/viant/ctxsched/progress"
	"github.com/viant/ctxsched/service/balancer"
	"github.com/viant/ctxsched/service/numa"
)

//go:embed testdata/*
var embedFS embed.FS

// device simulates hardware queues: submitted work becomes a completion on
// the same context.
type device struct {
	mu    sync.Mutex
	ready map[uint32]uint32
}

func newDevice() *device {
	return &device{ready: map[uint32]uint32{}}
}

func (d *device) submit(index uint32) {
	d.mu.Lock()
	d.ready[index]++
	d.mu.Unlock()
}

func (d *device) check(index, max uint32) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	available := d.ready[index]
	if available == 0 {
		return 0, model.ErrTryAgain
	}
	if available > max {
		available = max
	}
	d.ready[index] -= available
	return available, nil
}

func loadConfig(t *testing.T) *ctxsched.Config {
	cfg, err := ctxsched.LoadConfig(context.Background(), "embed:///testdata/scheduler.yaml", &embedFS)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig(t *testing.T) {
	cfg := loadConfig(t)
	assert.Equal(t, policy.Loop, cfg.Policy)
	assert.Equal(t, 2, cfg.Types)
	assert.Equal(t, 2, cfg.NumaNodes)
	assert.Equal(t, 100, cfg.Poll.MaxIterations)
	assert.Equal(t, time.Millisecond, cfg.Drainer.Interval)
	assert.EqualValues(t, 8, cfg.Drainer.Expect)
	assert.Nil(t, cfg.Numa.PinNode)
	require.Len(t, cfg.Regions, 5)
	assert.Equal(t, ctxsched.Region{Numa: 0, Mode: model.ModeAsync, Type: 0, Path: model.PathCryptoEngine, Begin: 10, End: 11}, cfg.Regions[3])
	assert.Equal(t, ctxsched.Region{Numa: 1, Mode: model.ModeAsync, Type: 1, Path: model.PathHardware, Begin: 12, End: 15}, cfg.Regions[4])
}

func TestConfig_Validate(t *testing.T) {
	pin := 3
	testCases := []struct {
		description string
		mutate      func(cfg *ctxsched.Config)
		expectErr   bool
	}{
		{description: "default", mutate: func(cfg *ctxsched.Config) {}},
		{description: "unknown policy", mutate: func(cfg *ctxsched.Config) { cfg.Policy = policy.Kind(42) }, expectErr: true},
		{description: "no types", mutate: func(cfg *ctxsched.Config) { cfg.Types = 0 }, expectErr: true},
		{description: "no nodes", mutate: func(cfg *ctxsched.Config) { cfg.NumaNodes = 0 }, expectErr: true},
		{description: "pin outside nodes", mutate: func(cfg *ctxsched.Config) { cfg.Numa.PinNode = &pin }, expectErr: true},
		{description: "zero slice", mutate: func(cfg *ctxsched.Config) { cfg.Balancer.SwitchSlice = 0 }, expectErr: true},
		{description: "inverted region", mutate: func(cfg *ctxsched.Config) {
			cfg.Regions = []ctxsched.Region{{Begin: 2, End: 1}}
		}, expectErr: true},
	}
	for _, testCase := range testCases {
		cfg := ctxsched.DefaultConfig()
		testCase.mutate(cfg)
		err := cfg.Validate()
		if testCase.expectErr {
			assert.ErrorIs(t, err, model.ErrInvalidArgument, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}

func TestService_Loop(t *testing.T) {
	dev := newDevice()
	srv, err := ctxsched.New(dev.check,
		ctxsched.WithConfig(loadConfig(t)),
		ctxsched.WithTopology(numa.NewStatic(2)),
		ctxsched.WithLogger(testr.New(t)),
	)
	require.NoError(t, err)
	defer srv.Release()
	assert.Equal(t, "Loop scheduler", srv.Scheduler().Name())
	assert.Equal(t, []int{0, 1}, srv.Scheduler().Locality())

	key, err := srv.Init(nil)
	require.NoError(t, err)
	var syncPicks []uint32
	for i := 0; i < 6; i++ {
		syncPicks = append(syncPicks, srv.PickNext(key, model.ModeSync))
	}
	assert.Equal(t, []uint32{0, 8, 8, 8, 8, 0}, syncPicks)

	first := srv.PickNext(key, model.ModeAsync)
	second := srv.PickNext(key, model.ModeAsync)
	assert.EqualValues(t, 4, first)
	assert.EqualValues(t, 10, second)
	dev.submit(first)
	dev.submit(second)
	assert.Equal(t, balancer.Stats{HardwareDispatched: 3, SoftwareDispatched: 5, HardwareOutstanding: 1, SoftwareOutstanding: 1}, srv.Stats())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() { _ = srv.Start(ctx) }()
	defer srv.Shutdown()

	message, err := srv.Queue().Consume(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, message.T().Count)
	assert.EqualValues(t, 8, message.T().Expected)
	require.NoError(t, message.Ack())

	stats := srv.Stats()
	assert.EqualValues(t, 0, stats.HardwareOutstanding)
	assert.EqualValues(t, 0, stats.SoftwareOutstanding)

	tracker := srv.Progress()
	require.NotNil(t, tracker)
	snapshot := tracker.Snapshot()
	assert.Equal(t, "Loop scheduler", snapshot.Scheduler)
	assert.GreaterOrEqual(t, snapshot.Polls, 1)
	assert.GreaterOrEqual(t, snapshot.Completed, 2)
}

func TestService_StartWithTracker(t *testing.T) {
	srv, err := ctxsched.New(newDevice().check,
		ctxsched.WithConfig(loadConfig(t)),
		ctxsched.WithTopology(numa.NewStatic(2)),
		ctxsched.WithLogger(testr.New(t)),
	)
	require.NoError(t, err)
	defer srv.Release()
	assert.Nil(t, srv.Progress())

	ctx, tracker := progress.WithNewTracker(context.Background(), "host", nil)
	ctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, srv.Start(ctx), context.Canceled)
	assert.Same(t, tracker, srv.Progress())
}

func TestService_TypeOnRemoteNode(t *testing.T) {
	srv, err := ctxsched.New(newDevice().check,
		ctxsched.WithConfig(loadConfig(t)),
		ctxsched.WithTopology(numa.NewStatic(2)),
		ctxsched.WithLogger(testr.New(t)),
	)
	require.NoError(t, err)
	defer srv.Release()

	key, err := srv.Init(&model.Params{NumaID: model.AnyNode, Type: 1, Path: model.PathHardware})
	require.NoError(t, err)
	assert.Equal(t, model.InvalidContext, srv.PickNext(key, model.ModeSync))
	var picks []uint32
	for i := 0; i < 5; i++ {
		picks = append(picks, srv.PickNext(key, model.ModeAsync))
	}
	assert.Equal(t, []uint32{12, 13, 14, 15, 12}, picks)
}

func TestService_RoundRobin(t *testing.T) {
	cfg := ctxsched.DefaultConfig()
	cfg.Regions = []ctxsched.Region{
		{Mode: model.ModeSync, Path: model.PathHardware, Begin: 0, End: 3},
		{Mode: model.ModeAsync, Path: model.PathHardware, Begin: 4, End: 7},
	}
	dev := newDevice()
	srv, err := ctxsched.New(dev.check, ctxsched.WithConfig(cfg), ctxsched.WithTopology(numa.NewStatic(1)), ctxsched.WithLogger(testr.New(t)))
	require.NoError(t, err)
	defer srv.Release()

	key, err := srv.Init(nil)
	require.NoError(t, err)
	var picks []uint32
	for i := 0; i < 5; i++ {
		picks = append(picks, srv.PickNext(key, model.ModeSync))
	}
	assert.Equal(t, []uint32{0, 1, 2, 3, 0}, picks)

	for i := 0; i < 3; i++ {
		dev.submit(srv.PickNext(key, model.ModeAsync))
	}
	count, err := srv.Poll(context.Background(), 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	count, err = srv.Poll(context.Background(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestService_Release(t *testing.T) {
	srv, err := ctxsched.New(newDevice().check, ctxsched.WithTopology(numa.NewStatic(1)), ctxsched.WithLogger(testr.New(t)))
	require.NoError(t, err)
	assert.Equal(t, 0, srv.Scheduler().Regions())

	srv.Release()
	srv.Release()
	assert.True(t, srv.Scheduler().Released())
	_, err = srv.Init(nil)
	assert.ErrorIs(t, err, model.ErrReleased)

	var nilService *ctxsched.Service
	nilService.Release()
}

func TestNew_InvalidRegion(t *testing.T) {
	cfg := ctxsched.DefaultConfig()
	cfg.Regions = []ctxsched.Region{
		{Mode: model.ModeSync, Begin: 0, End: 3},
		{Mode: model.ModeAsync, Begin: 3, End: 5},
	}
	_, err := ctxsched.New(newDevice().check, ctxsched.WithConfig(cfg), ctxsched.WithTopology(numa.NewStatic(1)), ctxsched.WithLogger(testr.New(t)))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = ctxsched.New(nil, ctxsched.WithTopology(numa.NewStatic(1)))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}
