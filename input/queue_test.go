package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrainOnce(t *testing.T) {
	q := NewQueue()
	q.Push(Light)
	q.Push(Heavy)

	require.Equal(t, []Action{Light, Heavy}, q.Drain())
	assert.Empty(t, q.Drain())
}

func TestQueueExpiresAfterWindow(t *testing.T) {
	q := NewQueue()
	q.Push(Jump)
	q.Update(0.1)
	q.Push(Light)
	q.Update(0.15)

	assert.Equal(t, []Action{Light}, q.Drain())
}

func TestNilQueue(t *testing.T) {
	var q *Queue
	q.Push(Light)
	q.Update(1)
	assert.Nil(t, q.Drain())
	assert.Zero(t, q.Len())
}

func TestActionIsOffense(t *testing.T) {
	assert.True(t, Heavy.IsOffense())
	assert.True(t, Special.IsOffense())
	assert.False(t, DownHold.IsOffense())
	assert.False(t, DashLeft.IsOffense())
}
