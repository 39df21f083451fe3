package scheduler

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestScheduler(t *testing.T) {
	t.Parallel()

	log := zerolog.New(nil).Level(zerolog.Disabled)

	t.Run("rejects invalid schedule", func(t *testing.T) {
		t.Parallel()

		s := New(log)
		err := s.AddJob("not a cron expression", JobFunc{JobName: "noop", Fn: func() error { return nil }})
		require.Error(t, err)
	})

	t.Run("accepts descriptors", func(t *testing.T) {
		t.Parallel()

		s := New(log)
		require.NoError(t, s.AddJob("@daily", JobFunc{JobName: "noop", Fn: func() error { return nil }}))
		require.NoError(t, s.AddJob("0 9 * * MON-FRI", JobFunc{JobName: "noop", Fn: func() error { return nil }}))
	})

	t.Run("run now invokes the job", func(t *testing.T) {
		t.Parallel()

		s := New(log)

		ran := false
		require.NoError(t, s.RunNow(JobFunc{JobName: "once", Fn: func() error {
			ran = true
			return nil
		}}))
		require.True(t, ran)

		wantErr := errors.New("boom")
		require.ErrorIs(t, s.RunNow(JobFunc{JobName: "failing", Fn: func() error { return wantErr }}), wantErr)
	})
}
