package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sewasaathi-backend/internal/config"
)

type MockAutomationService struct {
	mock.Mock
}

func (m *MockAutomationService) ApplyLateFees(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockAutomationService) SendOverdueReminders(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

var tick = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

func newRunner(auto *MockAutomationService) *JobRunner {
	return NewJobRunner(&Services{Automation: auto}, &config.Config{}, func() time.Time { return tick })
}

func TestJobRunner_ApplyLateFees(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		auto := new(MockAutomationService)
		auto.On("ApplyLateFees", mock.Anything, tick).Return(2, nil).Once()

		assert.NoError(t, newRunner(auto).RunApplyLateFees())
		auto.AssertExpectations(t)
	})

	t.Run("FailureIsReported", func(t *testing.T) {
		auto := new(MockAutomationService)
		auto.On("ApplyLateFees", mock.Anything, tick).Return(0, errors.New("db down")).Once()

		assert.EqualError(t, newRunner(auto).RunApplyLateFees(), "db down")
	})

	t.Run("PanicIsRecovered", func(t *testing.T) {
		auto := new(MockAutomationService)
		auto.On("ApplyLateFees", mock.Anything, tick).Run(func(mock.Arguments) { panic("boom") }).Once()

		assert.NotPanics(t, func() {
			assert.ErrorIs(t, newRunner(auto).RunApplyLateFees(), errJobPanicked)
		})
	})

	t.Run("RunsWithDeadline", func(t *testing.T) {
		auto := new(MockAutomationService)
		auto.On("ApplyLateFees", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), tick).Return(0, nil).Once()

		assert.NoError(t, newRunner(auto).RunApplyLateFees())
		auto.AssertExpectations(t)
	})
}

func TestJobRunner_RunAllNightlyJobs(t *testing.T) {
	auto := new(MockAutomationService)
	auto.On("ApplyLateFees", mock.Anything, tick).Return(0, errors.New("db down")).Once()
	auto.On("SendOverdueReminders", mock.Anything, tick).Return(1, nil).Once()

	newRunner(auto).RunAllNightlyJobs()
	auto.AssertExpectations(t)
}
