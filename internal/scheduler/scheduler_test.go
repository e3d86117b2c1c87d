package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/treasury_ledger/internal/platform/config"
)

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

func newTestScheduler(t *testing.T, cfg *config.Config, sweeper OverdueSweeper) *Scheduler {
	t.Helper()
	s, err := New(cfg, sweeper, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	require.NoError(t, err)
	return s
}

func TestRunOverdueSweep_UsesCalendarDayOfTimezone(t *testing.T) {
	cairo := time.FixedZone("EET", 2*60*60)

	sweeper := new(MockSweeper)
	s := newTestScheduler(t, &config.Config{SchedulerTimezone: cairo}, sweeper)
	// 23:30 UTC on May 1st is already May 2nd in Cairo.
	s.now = func() time.Time { return time.Date(2026, 5, 1, 23, 30, 0, 0, time.UTC) }

	sweeper.On("SweepOverdue", mock.Anything, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)).Return(int64(3), nil)

	updated, err := s.RunOverdueSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	sweeper.AssertExpectations(t)
}

func TestRunOverdueSweep_FailureIsReturned(t *testing.T) {
	sweeper := new(MockSweeper)
	s := newTestScheduler(t, &config.Config{}, sweeper)
	s.now = func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }

	boom := errors.New("database unavailable")
	sweeper.On("SweepOverdue", mock.Anything, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)).Return(int64(0), boom)

	_, err := s.RunOverdueSweep(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNew_Validation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(&config.Config{OverdueSweepCron: "not a cron"}, new(MockSweeper), logger, nil)
	assert.Error(t, err)

	_, err = New(&config.Config{}, nil, logger, nil)
	assert.Error(t, err)

	s, err := New(&config.Config{}, new(MockSweeper), logger, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOverdueSweepSpec, s.spec)
	assert.Equal(t, time.UTC, s.location)
}

func TestRun_StopsWithContext(t *testing.T) {
	s := newTestScheduler(t, &config.Config{}, new(MockSweeper))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
