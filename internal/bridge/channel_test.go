package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPreservesOrder(t *testing.T) {
	ch := NewChannel(8)
	ctx := context.Background()

	payloads := []string{"a", "b", "c", "d"}
	for _, p := range payloads {
		require.NoError(t, ch.Emit(ctx, []byte(p)))
	}
	ch.Close()

	var got []string
	for raw := range ch.Receive() {
		got = append(got, string(raw))
	}
	assert.Equal(t, payloads, got)
}

func TestChannelDropsOnOverflow(t *testing.T) {
	ch := NewChannel(2)
	ctx := context.Background()

	require.NoError(t, ch.Emit(ctx, []byte("1")))
	require.NoError(t, ch.Emit(ctx, []byte("2")))
	// Buffer full; this one is dropped rather than blocking the sandbox.
	require.NoError(t, ch.Emit(ctx, []byte("3")))
	ch.Close()

	var got []string
	for raw := range ch.Receive() {
		got = append(got, string(raw))
	}
	assert.Equal(t, []string{"1", "2"}, got)
}

func TestChannelEmitAfterClose(t *testing.T) {
	ch := NewChannel(2)
	ch.Close()

	err := ch.Emit(context.Background(), []byte("late"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestChannelCopiesPayload(t *testing.T) {
	ch := NewChannel(2)
	buf := []byte("original")
	require.NoError(t, ch.Emit(context.Background(), buf))

	// Mutate the caller's buffer after emission.
	copy(buf, "mutated!")
	ch.Close()

	raw := <-ch.Receive()
	assert.Equal(t, "original", string(raw))
}
