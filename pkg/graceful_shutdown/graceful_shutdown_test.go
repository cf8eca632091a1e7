package graceful_shutdown_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hrterry/STImage-WebAPP/pkg/graceful_shutdown"
)

func TestCloseFuncsRunOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gfl := graceful_shutdown.NewGracefulShutdown(ctx, graceful_shutdown.WithTimeout(time.Second))

	closed := make(chan struct{})
	var hasDeadline bool
	gfl.MustClose(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		close(closed)
		return nil
	})

	cancel()
	gfl.Wait()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close func was not called")
	}
	require.True(t, hasDeadline)
}

func TestFailingTaskTriggersClose(t *testing.T) {
	gfl := graceful_shutdown.NewGracefulShutdown(context.Background())

	closed := make(chan struct{})
	gfl.MustClose(func(context.Context) error {
		close(closed)
		return nil
	})
	gfl.Go(func() error { return errors.New("listener failed") })

	gfl.Wait()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close func was not called")
	}
}
