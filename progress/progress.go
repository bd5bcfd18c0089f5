package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/ctxsched/internal/clock"
)

// Delta is an incremental counter change reported after a poll.
type Delta struct {
	Polls     int
	Expected  int
	Completed int
	Failed    int
}

// Progress keeps aggregated drain counters.  It is safe for concurrent use.
type Progress struct {
	Scheduler string
	StartedAt time.Time

	Polls     int
	Expected  int
	Completed int
	Failed    int

	sync.Mutex
	onChange func(Progress)
}

// Shortfall returns how many expected completions were not collected.
func (p *Progress) Shortfall() int {
	if p == nil {
		return 0
	}
	if diff := p.Expected - p.Completed; diff > 0 {
		return diff
	}
	return 0
}

// Update applies d.  The onChange callback, if any, receives a copy outside
// the lock.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.Polls += d.Polls
	p.Expected += d.Expected
	p.Completed += d.Completed
	p.Failed += d.Failed
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// copy must be called with the lock held.
func (p *Progress) copy() Progress {
	return Progress{
		Scheduler: p.Scheduler,
		StartedAt: p.StartedAt,
		Polls:     p.Polls,
		Expected:  p.Expected,
		Completed: p.Completed,
		Failed:    p.Failed,
	}
}

// Snapshot returns a copy for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// OnChange replaces the callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker embeds a new tracker for scheduler in a derived context.
func WithNewTracker(ctx context.Context, scheduler string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		Scheduler: scheduler,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext returns the tracker carried by ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx applies d to the tracker in ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
