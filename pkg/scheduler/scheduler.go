// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job runs on every tick. It gets a context bounded by the tick interval.
type Job func(ctx context.Context) error

// Scheduler runs one job periodically
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	started bool
}

// NewScheduler creates a scheduler firing every intervalMinutes
func NewScheduler(name string, intervalMinutes int, job Job, logger *zap.Logger) *Scheduler {
	return NewSchedulerWithInterval(name, time.Duration(intervalMinutes)*time.Minute, job, logger)
}

// NewSchedulerWithInterval creates a scheduler with an arbitrary interval
func NewSchedulerWithInterval(name string, interval time.Duration, job Job, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.With(zap.String("job", name)),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the scheduler. A non-positive interval never fires.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	if s.interval <= 0 {
		close(s.done)
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		defer close(s.done)
		for {
			select {
			case <-ticker.C:
				s.run()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	if err := s.job(ctx); err != nil {
		s.logger.Warn("scheduled job failed", zap.Error(err))
	}
}

// Stop stops the scheduler and waits for a running job to finish.
// Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}
