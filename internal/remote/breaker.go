// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package remote

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the remote circuit breaker
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
	// RequestTimeout bounds each call; zero leaves the caller's deadline alone
	RequestTimeout time.Duration
}

// DefaultBreakerConfig returns a default configuration for the breaker
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "remote-store",
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
		RequestTimeout:   10 * time.Second,
	}
}

// Breaker wraps a Store so a failing remote fails fast instead of making
// every action wait on the network. It never retries.
type Breaker struct {
	next    Store
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewBreaker decorates next with a circuit breaker
func NewBreaker(next Store, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// Refusals mean the store is reachable
		IsSuccessful: func(err error) bool {
			return err == nil || IsRejected(err)
		},
	})
	return &Breaker{next: next, cb: cb, timeout: cfg.RequestTimeout}
}

// State reports the breaker state
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

func (b *Breaker) run(op string, fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return canvas.NewRemoteStoreError(op, "remote store is unavailable, try again shortly", err)
	}
	return err
}

// LoadGraph implements Store
func (b *Breaker) LoadGraph(ctx context.Context, userID string) (*canvas.Graph, error) {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	var g *canvas.Graph
	err := b.run(OpLoad, func() error {
		var err error
		g, err = b.next.LoadGraph(ctx, userID)
		return err
	})
	return g, err
}

func (b *Breaker) create(op string, fn func() (Created, error)) (Created, error) {
	var created Created
	err := b.run(op, func() error {
		var err error
		created, err = fn()
		return err
	})
	return created, err
}

// InsertConcept implements Store
func (b *Breaker) InsertConcept(ctx context.Context, userID, name string) (Created, error) {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.create(OpAddConcept, func() (Created, error) { return b.next.InsertConcept(ctx, userID, name) })
}

// InsertSession implements Store
func (b *Breaker) InsertSession(ctx context.Context, userID, conceptID, name string) (Created, error) {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.create(OpAddSession, func() (Created, error) { return b.next.InsertSession(ctx, userID, conceptID, name) })
}

// InsertQuestion implements Store
func (b *Breaker) InsertQuestion(ctx context.Context, userID, sessionID, text string) (Created, error) {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.create(OpAddQuestion, func() (Created, error) { return b.next.InsertQuestion(ctx, userID, sessionID, text) })
}

// InsertIdea implements Store
func (b *Breaker) InsertIdea(ctx context.Context, userID, questionID, text string, color canvas.Color) (Created, error) {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.create(OpAddIdea, func() (Created, error) { return b.next.InsertIdea(ctx, userID, questionID, text, color) })
}

// UpdateConceptName implements Store
func (b *Breaker) UpdateConceptName(ctx context.Context, userID, id, name string) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpRenameConcept, func() error { return b.next.UpdateConceptName(ctx, userID, id, name) })
}

// UpdateQuestionText implements Store
func (b *Breaker) UpdateQuestionText(ctx context.Context, userID, id, text string) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpEditQuestion, func() error { return b.next.UpdateQuestionText(ctx, userID, id, text) })
}

// UpdateIdeaText implements Store
func (b *Breaker) UpdateIdeaText(ctx context.Context, userID, id, text string) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpEditIdea, func() error { return b.next.UpdateIdeaText(ctx, userID, id, text) })
}

// UpdateIdeaColor implements Store
func (b *Breaker) UpdateIdeaColor(ctx context.Context, userID, id string, color canvas.Color) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpColorIdea, func() error { return b.next.UpdateIdeaColor(ctx, userID, id, color) })
}

// DeleteConcept implements Store
func (b *Breaker) DeleteConcept(ctx context.Context, userID, id string) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpDeleteConcept, func() error { return b.next.DeleteConcept(ctx, userID, id) })
}

// DeleteSession implements Store
func (b *Breaker) DeleteSession(ctx context.Context, userID, id string) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpDeleteSession, func() error { return b.next.DeleteSession(ctx, userID, id) })
}

// DeleteQuestion implements Store
func (b *Breaker) DeleteQuestion(ctx context.Context, userID, id string) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpDeleteQuestion, func() error { return b.next.DeleteQuestion(ctx, userID, id) })
}

// DeleteIdea implements Store
func (b *Breaker) DeleteIdea(ctx context.Context, userID, id string) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpDeleteIdea, func() error { return b.next.DeleteIdea(ctx, userID, id) })
}

// DeleteIdeas implements Store
func (b *Breaker) DeleteIdeas(ctx context.Context, userID string, ids []string) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.run(OpPurgeIdeas, func() error { return b.next.DeleteIdeas(ctx, userID, ids) })
}
