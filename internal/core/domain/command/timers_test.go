package command

import (
	"errors"
	"groupcast/internal/core/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopTimers_Respond(t *testing.T) {
	for _, n := range []int{0, 3} {
		jobs := new(MockJobs)
		jobs.On("CancelAll").Return(n).Once()

		out, err := NewStopTimers(jobs, "/stoptimers").Respond(t.Context(), 1, domain.ParsedCommand{})

		require.NoError(t, err)
		assert.Equal(t, "✓ All auto-send timers stopped.", out.Text())
		assert.Equal(t, domain.EffectJobsCleared, out.SideEffect)
		jobs.AssertExpectations(t)
	}
}

func TestStopJob_Respond(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		job        domain.RecurringJob
		err        error
		want       string
		wantEffect domain.SideEffect
	}{
		{
			name:       "stopped",
			args:       []string{"abcdef12"},
			job:        domain.RecurringJob{ID: "abcdef12-3456"},
			want:       "✓ Auto-send job abcdef12 stopped.",
			wantEffect: domain.EffectJobsCleared,
		},
		{
			name:       "not found",
			args:       []string{"zzzz"},
			err:        domain.ErrJobNotFound,
			want:       "❌ No auto-send job matches zzzz. See /jobs",
			wantEffect: domain.EffectNone,
		},
		{
			name:       "ambiguous",
			args:       []string{"abcd"},
			err:        domain.ErrAmbiguousJob,
			want:       "❌ More than one job matches abcd, give more characters.",
			wantEffect: domain.EffectNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := new(MockJobs)
			jobs.On("Cancel", tt.args[0]).Return(tt.job, tt.err).Once()

			out, err := NewStopJob(jobs, "/stop").Respond(t.Context(), 1, domain.ParsedCommand{Args: tt.args})

			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Text())
			assert.Equal(t, tt.wantEffect, out.SideEffect)
			jobs.AssertExpectations(t)
		})
	}
}

func TestStopJob_UnexpectedError(t *testing.T) {
	jobs := new(MockJobs)
	jobs.On("Cancel", "abcd").Return(domain.RecurringJob{}, errors.New("boom")).Once()

	_, err := NewStopJob(jobs, "/stop").Respond(t.Context(), 1, domain.ParsedCommand{Args: []string{"abcd"}})
	require.EqualError(t, err, "boom")
}

func TestJobs_Respond(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		jobs := new(MockJobs)
		jobs.On("List").Return([]domain.RecurringJob{}).Once()

		out, err := NewJobs(jobs, "/jobs", 4000).Respond(t.Context(), 1, domain.ParsedCommand{})

		require.NoError(t, err)
		assert.Equal(t, "No active auto-send jobs.", out.Text())
	})

	t.Run("lists jobs", func(t *testing.T) {
		iv, err := domain.ParseInterval("4h")
		require.NoError(t, err)
		created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

		jobs := new(MockJobs)
		jobs.On("List").Return([]domain.RecurringJob{{
			ID:        "abcdef12-3456",
			Request:   mustRequest(t, "Daily   reminder\nfor everyone in the group chat", "@g1", "@g2"),
			Interval:  iv,
			CreatedAt: created,
		}}).Once()

		out, err := NewJobs(jobs, "/jobs", 4000).Respond(t.Context(), 1, domain.ParsedCommand{})

		require.NoError(t, err)
		require.Len(t, out.Responses, 1)
		assert.True(t, strings.HasPrefix(out.Text(), "⏱ Active auto-send jobs (1)."))
		assert.Contains(t, out.Text(), `1. [abcdef12] 2 groups every 4h since 2026-03-01 09:30: "Daily reminder for everyone i…"`)
	})

	t.Run("chunks long listings", func(t *testing.T) {
		var list []domain.RecurringJob
		for range 40 {
			list = append(list, domain.RecurringJob{
				ID:       "abcdef12-3456",
				Request:  mustRequest(t, "x", "@g"),
				Interval: domain.Interval{Label: "1h"},
			})
		}
		jobs := new(MockJobs)
		jobs.On("List").Return(list).Once()

		out, err := NewJobs(jobs, "/jobs", 500).Respond(t.Context(), 1, domain.ParsedCommand{})

		require.NoError(t, err)
		assert.Greater(t, len(out.Responses), 1)
		for _, r := range out.Responses {
			assert.Less(t, len([]rune(r)), 500)
		}
	})
}

func TestCancelWizard_Respond(t *testing.T) {
	w := new(MockWizard)
	w.On("Cancel", domain.Caller(1)).Return(true).Once()
	w.On("Cancel", domain.Caller(2)).Return(false).Once()

	c := NewCancelWizard(w, "/cancel")

	out, err := c.Respond(t.Context(), 1, domain.ParsedCommand{})
	require.NoError(t, err)
	assert.Equal(t, "✓ Auto-send setup cancelled.", out.Text())

	out, err = c.Respond(t.Context(), 2, domain.ParsedCommand{})
	require.NoError(t, err)
	assert.Equal(t, "Nothing to cancel.", out.Text())

	out, err = NewCancelWizard(nil, "/cancel").Respond(t.Context(), 3, domain.ParsedCommand{})
	require.NoError(t, err)
	assert.Equal(t, "Nothing to cancel.", out.Text())
	w.AssertExpectations(t)
}
