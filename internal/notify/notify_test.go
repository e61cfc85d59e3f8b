package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_PublishStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := NewInMemory(4)
	require.NoError(t, n.Publish(ctx, Info("Attendance and notes saved")))

	toasts, err := n.Stream(ctx)
	require.NoError(t, err)

	select {
	case tst := <-toasts:
		assert.Equal(t, LevelInfo, tst.Level)
		assert.Equal(t, "Attendance and notes saved", tst.Message)
	case <-time.After(time.Second):
		t.Fatal("no toast received")
	}
}

func TestInMemory_PublishNeverBlocks(t *testing.T) {
	n := NewInMemory(1)
	ctx := context.Background()

	// second publish overflows the buffer and is dropped, not blocked on
	require.NoError(t, n.Publish(ctx, Info("first")))
	require.NoError(t, n.Publish(ctx, Info("second")))
}

func TestInMemory_StreamClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	n := NewInMemory(1)

	toasts, err := n.Stream(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, open := <-toasts:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("stream did not close")
	}
}
