package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satellite-agent/internal/domain/entity"
	"satellite-agent/internal/infrastructure/browser/browsertest"
)

func TestManager_AcquireStartsOnce(t *testing.T) {
	factory := &browsertest.Factory{}
	m := NewManager(factory, browsertest.NopLogger{})

	first, err := m.Acquire(context.Background())
	require.NoError(t, err)

	second, err := m.Acquire(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second, "live session should be reused")
	assert.Equal(t, 1, factory.Created)
}

func TestManager_ReleaseEndsSession(t *testing.T) {
	factory := &browsertest.Factory{}
	m := NewManager(factory, browsertest.NopLogger{})

	_, err := m.Acquire(context.Background())
	require.NoError(t, err)

	m.Release()
	assert.Equal(t, 1, factory.Session.Closed)
}

func TestManager_ReleaseIsIdempotent(t *testing.T) {
	factory := &browsertest.Factory{}
	m := NewManager(factory, browsertest.NopLogger{})

	_, err := m.Acquire(context.Background())
	require.NoError(t, err)

	m.Release()
	m.Release()
	m.Release()
	assert.Equal(t, 1, factory.Session.Closed)
}

func TestManager_ReleaseWithoutAcquire(t *testing.T) {
	m := NewManager(&browsertest.Factory{}, browsertest.NopLogger{})
	assert.NotPanics(t, func() { m.Release() })
}

func TestManager_StartFailure(t *testing.T) {
	factory := &browsertest.Factory{Err: errors.New("no chrome binary")}
	m := NewManager(factory, browsertest.NopLogger{})

	s, err := m.Acquire(context.Background())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, entity.ErrSessionStart)

	// No session may be marked active after a start failure.
	assert.Nil(t, m.active)
}
