package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-project-intel/internal/mocks"
	"github.com/feral-file/ff-project-intel/internal/scheduler"
)

func setupTestScheduler(t *testing.T) (*gomock.Controller, *scheduler.Scheduler) {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Unix(0, 0)).AnyTimes()
	clock.EXPECT().Since(gomock.Any()).Return(time.Millisecond).AnyTimes()

	return ctrl, scheduler.New(scheduler.Config{RunTimeout: time.Minute}, clock)
}

func stop(t *testing.T, s *scheduler.Scheduler) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_RunImmediately(t *testing.T) {
	ctrl, s := setupTestScheduler(t)

	ran := make(chan struct{}, 1)
	task := mocks.NewMockTask(ctrl)
	task.EXPECT().Name().Return("kol-tweets").AnyTimes()
	task.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		ran <- struct{}{}
		return nil
	})

	require.NoError(t, s.Register("0 0 0 1 1 *", task, true))
	s.Start()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("task did not run on start")
	}
	stop(t, s)
}

func TestScheduler_FailuresDoNotStopOtherTasks(t *testing.T) {
	ctrl, s := setupTestScheduler(t)

	failing := mocks.NewMockTask(ctrl)
	failing.EXPECT().Name().Return("failing").AnyTimes()
	failing.EXPECT().Run(gomock.Any()).Return(errors.New("boom")).MinTimes(1)

	panicking := mocks.NewMockTask(ctrl)
	panicking.EXPECT().Name().Return("panicking").AnyTimes()
	panicking.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) error {
		panic("unexpected")
	}).MinTimes(1)

	var healthyRuns atomic.Int32
	healthy := mocks.NewMockTask(ctrl)
	healthy.EXPECT().Name().Return("healthy").AnyTimes()
	healthy.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) error {
		healthyRuns.Add(1)
		return nil
	}).MinTimes(2)

	require.NoError(t, s.Register("@every 1s", failing, true))
	require.NoError(t, s.Register("@every 1s", panicking, true))
	require.NoError(t, s.Register("@every 1s", healthy, true))
	s.Start()

	require.Eventually(t, func() bool { return healthyRuns.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	stop(t, s)
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	ctrl, s := setupTestScheduler(t)

	var running, overlaps, runs atomic.Int32
	task := mocks.NewMockTask(ctrl)
	task.EXPECT().Name().Return("slow").AnyTimes()
	task.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		defer running.Add(-1)
		runs.Add(1)
		select {
		case <-time.After(2500 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	}).MinTimes(1)

	require.NoError(t, s.Register("@every 1s", task, true))
	s.Start()

	time.Sleep(3 * time.Second)
	stop(t, s)

	assert.Zero(t, overlaps.Load())
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}

func TestScheduler_RegisterValidation(t *testing.T) {
	ctrl, s := setupTestScheduler(t)

	task := mocks.NewMockTask(ctrl)
	task.EXPECT().Name().Return("daily-trends").AnyTimes()

	assert.Error(t, s.Register("not a spec", task, false))
	assert.Error(t, s.Register("0 0 9 * * *", nil, false))

	require.NoError(t, s.Register("0 0 9 * * *", task, false))
	assert.Error(t, s.Register("0 0 10 * * *", task, false), "a task registers once")
}

func TestScheduler_StopCancelsRunningTasks(t *testing.T) {
	ctrl, s := setupTestScheduler(t)

	started := make(chan struct{})
	task := mocks.NewMockTask(ctrl)
	task.EXPECT().Name().Return("blocking").AnyTimes()
	task.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	require.NoError(t, s.Register("0 0 0 1 1 *", task, true))
	s.Start()
	<-started

	stop(t, s)
}
