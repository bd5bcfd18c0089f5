package poller

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/ctxsched/model"
	"github.com/viant/ctxsched/service/region"
)

// Config represents poller configuration
type Config struct {
	// MaxIterations bounds the number of full sweeps of one poll call.
	MaxIterations int `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty"`
}

// DefaultConfig returns the default poller configuration
func DefaultConfig() Config {
	return Config{MaxIterations: 1000}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max poll iterations %d", model.ErrInvalidArgument, c.MaxIterations)
	}
	return nil
}

// Observer receives the completions collected on one path of one node sweep.
type Observer func(path model.PathKind, count uint32)

// Service polls contexts of a region table.
type Service struct {
	config Config
	table  *region.Table
	check  model.CompletionCheck
}

// New creates a poller; a non positive iteration budget falls back to the default.
func New(table *region.Table, check model.CompletionCheck, config Config) *Service {
	if config.MaxIterations <= 0 {
		config = DefaultConfig()
	}
	return &Service{config: config, table: table, check: check}
}

// MaxIterations returns the sweep budget.
func (s *Service) MaxIterations() int {
	return s.config.MaxIterations
}

// probe asks the completion check for one item; try-again counts as zero.
func (s *Service) probe(index uint32) (uint32, error) {
	n, err := s.check(index, 1)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, model.ErrTryAgain) {
		return 0, nil
	}
	return 0, fmt.Errorf("poll context %d: %w", index, err)
}

// Sweep polls every provisioned async cell on the given paths until expect
// completions are collected or the budget runs out.  Nodes without regions
// are skipped; a node that yields completions is swept again before moving
// on.  Running out of budget is not an error: callers compare the count
// with expect.
func (s *Service) Sweep(ctx context.Context, expect uint32, paths []model.PathKind, observe Observer) (uint32, error) {
	var count uint32
	if expect == 0 {
		return 0, nil
	}
	if s.check == nil {
		return 0, fmt.Errorf("%w: completion check is nil", model.ErrInvalidArgument)
	}
	numaNum := s.table.NumaNum()
	for iteration := 0; iteration < s.config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		for node := 0; node < numaNum; {
			if !s.table.NodeValid(node) {
				node++
				continue
			}
			last := count
			var err error
			if count, err = s.sweepNode(node, expect, count, paths, observe); err != nil {
				return count, err
			}
			if count >= expect {
				return count, nil
			}
			if last == count {
				node++
			}
		}
	}
	return count, nil
}

func (s *Service) sweepNode(node int, expect, count uint32, paths []model.PathKind, observe Observer) (uint32, error) {
	for _, path := range paths {
		if !s.table.PathValid(node, path) {
			continue
		}
		before := count
		cells := s.table.Cells(node, path, model.ModeAsync)
		var err error
		for i := range cells {
			if !cells[i].Valid() {
				continue
			}
			if count, err = s.sweepRange(cells[i].Begin, cells[i].End, expect, count); err != nil || count >= expect {
				break
			}
		}
		if observe != nil && count > before {
			observe(path, count-before)
		}
		if err != nil || count >= expect {
			return count, err
		}
	}
	return count, nil
}

func (s *Service) sweepRange(begin, end, expect, count uint32) (uint32, error) {
	for index := begin; ; index++ {
		n, err := s.probe(index)
		if err != nil {
			return count, err
		}
		if count += n; count >= expect || index == end {
			return count, nil
		}
	}
}

// Fixed polls one context, used by policies that dispatch to a fixed index.
// It probes at most MaxIterations+expect times.
func (s *Service) Fixed(ctx context.Context, index uint32, expect uint32) (uint32, error) {
	var count uint32
	if expect == 0 {
		return 0, nil
	}
	if s.check == nil {
		return 0, fmt.Errorf("%w: completion check is nil", model.ErrInvalidArgument)
	}
	budget := s.config.MaxIterations + int(expect)
	for i := 0; i < budget; i++ {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		n, err := s.probe(index)
		if err != nil {
			return count, err
		}
		if count += n; count >= expect {
			break
		}
	}
	return count, nil
}
