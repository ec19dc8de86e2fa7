package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &echoProvider{err: errors.New("connection refused")}
	b := WithBreaker("test-open", inner, time.Minute)

	for i := 0; i < 5; i++ {
		_, err := b.Chat(context.Background(), nil)
		require.EqualError(t, err, "connection refused")
	}

	_, err := b.Chat(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 5, inner.calls, "open breaker must not reach the provider")
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	inner := &echoProvider{reply: "fine"}
	b := WithBreaker("test-ok", inner, 0)

	out, err := b.Chat(context.Background(), []Message{{Role: "user", Content: "q"}})
	require.NoError(t, err)
	assert.Equal(t, "fine", out)
}

func TestBreaker_IgnoresCancellation(t *testing.T) {
	inner := &echoProvider{err: context.Canceled}
	b := WithBreaker("test-cancel", inner, time.Minute)

	for i := 0; i < 10; i++ {
		_, err := b.Chat(context.Background(), nil)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, 10, inner.calls)
}
