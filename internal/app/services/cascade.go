package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/bazaar/internal/pkg/metrics"
)

type stepKind int

const (
	stepStore stepKind = iota
	stepAfterCommit
)

type cascadeStep struct {
	name string
	kind stepKind
	run  func(ctx context.Context) error
}

// Cascade is an ordered list of named steps. Store steps share one
// transaction; after-commit steps (file cleanup, cache invalidation) run only
// once that transaction committed and can never fail the cascade.
type Cascade struct {
	name   string
	tx     Transactor
	logger zerolog.Logger
	steps  []cascadeStep
}

func newCascade(name string, tx Transactor, logger zerolog.Logger) *Cascade {
	return &Cascade{
		name:   name,
		tx:     tx,
		logger: logger.With().Str("cascade", name).Logger(),
	}
}

// Store appends a step that runs inside the cascade transaction.
func (c *Cascade) Store(name string, fn func(ctx context.Context) error) *Cascade {
	c.steps = append(c.steps, cascadeStep{name: name, kind: stepStore, run: fn})
	return c
}

// AfterCommit appends a best-effort step that runs after the commit.
func (c *Cascade) AfterCommit(name string, fn func(ctx context.Context) error) *Cascade {
	c.steps = append(c.steps, cascadeStep{name: name, kind: stepAfterCommit, run: fn})
	return c
}

// Run executes the cascade. The returned error is always from a store step.
func (c *Cascade) Run(ctx context.Context) error {
	err := c.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, step := range c.steps {
			if step.kind != stepStore {
				continue
			}
			if err := step.run(txCtx); err != nil {
				metrics.ObserveCascadeStep(c.name, step.name, metrics.ResultError)
				c.logger.Error().Err(err).Str("step", step.name).Msg("Cascade step failed, rolling back")
				return fmt.Errorf("%s: %w", step.name, err)
			}
			metrics.ObserveCascadeStep(c.name, step.name, metrics.ResultOK)
		}
		return nil
	})
	if err != nil {
		c.skipAfterCommit()
		return err
	}

	for _, step := range c.steps {
		if step.kind != stepAfterCommit {
			continue
		}
		if err := step.run(ctx); err != nil {
			metrics.ObserveCascadeStep(c.name, step.name, metrics.ResultError)
			metrics.ObserveCascadeFileFailure()
			c.logger.Warn().Err(err).Str("step", step.name).Msg("Post-commit cleanup failed")
			continue
		}
		metrics.ObserveCascadeStep(c.name, step.name, metrics.ResultOK)
	}
	return nil
}

func (c *Cascade) skipAfterCommit() {
	for _, step := range c.steps {
		if step.kind == stepAfterCommit {
			metrics.ObserveCascadeStep(c.name, step.name, metrics.ResultSkipped)
		}
	}
}
