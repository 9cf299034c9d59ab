package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	legal := map[Status][]Status{
		StatusQueued:     {StatusProcessing},
		StatusProcessing: {StatusDone, StatusFailed},
		StatusDone:       {},
		StatusFailed:     {},
	}

	all := []Status{StatusQueued, StatusProcessing, StatusDone, StatusFailed}
	for from, allowed := range legal {
		for _, to := range all {
			want := false
			for _, a := range allowed {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusNoSelfOrRevert(t *testing.T) {
	assert.False(t, StatusProcessing.CanTransitionTo(StatusQueued))
	assert.False(t, StatusDone.CanTransitionTo(StatusProcessing))
	assert.False(t, StatusFailed.CanTransitionTo(StatusQueued))
	assert.False(t, StatusQueued.CanTransitionTo(StatusQueued))
	assert.False(t, StatusQueued.CanTransitionTo(StatusDone))
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusQueued.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusQueued.Valid())
	assert.False(t, Status("cancelled").Valid())
	assert.False(t, Status("").Valid())
}

func TestNewJob(t *testing.T) {
	j := New("abc123")
	require.NotEmpty(t, j.ID)
	assert.Equal(t, StatusQueued, j.Status)
	assert.Equal(t, 0, j.Progress)
	assert.Equal(t, "abc123", j.InputChecksum)
	assert.False(t, j.CreatedAt.IsZero())

	j2 := New("abc123")
	assert.NotEqual(t, j.ID, j2.ID, "identical content still gets a distinct job id")
}
