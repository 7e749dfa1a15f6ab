package systems

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidatesConfig(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobCallbacksRunOnUpdate(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)

	var started atomic.Int32
	var completed []any
	var failed []error
	for i := 0; i < 4; i++ {
		require.NoError(t, js.Submit(JobTask{
			Name: "square",
			OnStart: func() (any, error) {
				started.Add(1)
				if i == 3 {
					return nil, errors.New("odd one out")
				}
				return i * i, nil
			},
			OnComplete: func(result any) { completed = append(completed, result) },
			OnFailure:  func(err error) { failed = append(failed, err) },
		}))
	}

	require.Eventually(t, func() bool { return started.Load() == 4 }, time.Second, time.Millisecond)
	// callbacks only run on Update
	assert.Empty(t, completed)

	require.Eventually(t, func() bool {
		js.Update()
		return js.Pending() == 0
	}, time.Second, time.Millisecond)
	assert.ElementsMatch(t, []any{0, 1, 4}, completed)
	require.Len(t, failed, 1)
	assert.EqualError(t, failed[0], "odd one out")

	require.NoError(t, js.Shutdown())
}

func TestShutdownDrainsQueuedJobs(t *testing.T) {
	js, err := NewJobSystem(1, 8)
	require.NoError(t, err)

	done := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, js.Submit(JobTask{
			OnStart:    func() (any, error) { return nil, nil },
			OnComplete: func(any) { done++ },
		}))
	}
	require.NoError(t, js.Shutdown())
	assert.Equal(t, 5, done)
	assert.Zero(t, js.Pending())

	assert.ErrorIs(t, js.Submit(JobTask{OnStart: func() (any, error) { return nil, nil }}), ErrJobSystemClosed)
	assert.NoError(t, js.Shutdown())
}
