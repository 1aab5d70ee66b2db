package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/usersvc/internal/core"
)

// fakeServer records when Shutdown runs relative to the limiter.
type fakeServer struct {
	mu           sync.Mutex
	activeAtStop int
	limiter      *core.BulkLimiter
	err          error
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeAtStop = f.limiter.ActiveCount()
	return f.err
}

func TestShutdown_StopsListenerBeforeDraining(t *testing.T) {
	limiter := core.NewBulkLimiter(2, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))

	srv := &fakeServer{limiter: limiter}
	go func() {
		time.Sleep(150 * time.Millisecond)
		limiter.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, shutdown(ctx, srv, limiter))
	assert.Equal(t, 1, srv.activeAtStop, "listener must stop while bulk work is still running")
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestShutdown_DrainTimeout(t *testing.T) {
	limiter := core.NewBulkLimiter(1, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := shutdown(ctx, &fakeServer{limiter: limiter}, limiter)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestShutdown_ServerError(t *testing.T) {
	limiter := core.NewBulkLimiter(1, time.Second)
	boom := errors.New("boom")

	err := shutdown(context.Background(), &fakeServer{limiter: limiter, err: boom}, limiter)
	assert.ErrorIs(t, err, boom)
}
