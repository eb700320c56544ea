// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	s := NewSchedulerWithInterval("test", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("ignored")
	}, nil)

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	s.Stop()
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop")
}

func TestScheduler_ZeroIntervalNeverFires(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler("off", 0, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, nil)

	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	assert.Zero(t, runs.Load())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewSchedulerWithInterval("idle", time.Hour, func(ctx context.Context) error { return nil }, nil)
	s.Stop()
}
