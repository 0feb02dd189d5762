package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockJobs struct{ mock.Mock }

func (m *mockJobs) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestSweep_UsesOneTimestampForBothSteps(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	jobs, tokens := new(mockJobs), new(mockTokens)
	jobs.On("CloseExpired", mock.Anything, at).Return(int64(3), nil).Once()
	tokens.On("DeleteExpired", mock.Anything, at).Return(int64(1), nil).Once()

	s := NewSweeper(jobs, tokens, time.Minute, zerolog.Nop())
	s.now = func() time.Time { return at }
	s.Sweep(context.Background())

	jobs.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestSweep_JobFailureStillCleansTokens(t *testing.T) {
	jobs, tokens := new(mockJobs), new(mockTokens)
	jobs.On("CloseExpired", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	tokens.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil)

	NewSweeper(jobs, tokens, time.Minute, zerolog.Nop()).Sweep(context.Background())

	tokens.AssertNumberOfCalls(t, "DeleteExpired", 1)
}

func TestRun_StopsOnCancel(t *testing.T) {
	var sweeps atomic.Int32
	jobs, tokens := new(mockJobs), new(mockTokens)
	jobs.On("CloseExpired", mock.Anything, mock.Anything).Return(int64(0), nil).
		Run(func(mock.Arguments) { sweeps.Add(1) })
	tokens.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil)

	s := NewSweeper(jobs, tokens, 10*time.Millisecond, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return sweeps.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestNewSweeper_DefaultsInterval(t *testing.T) {
	s := NewSweeper(new(mockJobs), new(mockTokens), 0, zerolog.Nop())
	assert.Equal(t, DefaultSweepInterval, s.interval)
}
