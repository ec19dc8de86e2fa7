package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	mu       sync.Mutex
	acked    []uint64
	nacked   []uint64 // dead-lettered
	requeued []uint64
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if requeue {
		f.requeued = append(f.requeued, tag)
	} else {
		f.nacked = append(f.nacked, tag)
	}
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func TestDispatch_AcksAndDeadLetters(t *testing.T) {
	ack := &fakeAck{}
	msgs := make(chan amqp.Delivery, 3)
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`{"job_id":"ok"}`)}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte(`{"job_id":"bad"}`)}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte(`not json`)}
	close(msgs)

	var mu sync.Mutex
	var seen []string
	handle := func(ctx context.Context, jobID string) error {
		mu.Lock()
		seen = append(seen, jobID)
		mu.Unlock()
		if jobID == "bad" {
			return errors.New("boom")
		}
		return nil
	}

	err := Dispatch(context.Background(), msgs, 2, handle)
	require.ErrorIs(t, err, errDeliveriesClosed)

	assert.ElementsMatch(t, []string{"ok", "bad"}, seen)
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.ElementsMatch(t, []uint64{2, 3}, ack.nacked)
}

func TestDispatch_StopsOnContextCancel(t *testing.T) {
	msgs := make(chan amqp.Delivery)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Dispatch(ctx, msgs, 1, func(context.Context, string) error { return nil })
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not stop")
	}
}

func TestDispatch_ShutdownRequeuesPendingAndFinishesRunning(t *testing.T) {
	ack := &fakeAck{}
	msgs := make(chan amqp.Delivery, 4)
	for tag := uint64(1); tag <= 4; tag++ {
		msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: []byte(fmt.Sprintf(`{"job_id":"job-%d"}`, tag))}
	}

	started := make(chan struct{})
	release := make(chan struct{})
	var jobCtxErr error
	var handled []string
	handle := func(ctx context.Context, jobID string) error {
		handled = append(handled, jobID)
		close(started)
		<-release
		jobCtxErr = ctx.Err()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Dispatch(ctx, msgs, 1, handle) }()

	<-started
	cancel()
	close(release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not stop")
	}

	assert.Equal(t, []string{"job-1"}, handled)
	assert.NoError(t, jobCtxErr, "running job must not see the shutdown cancel")
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Empty(t, ack.nacked)
	assert.ElementsMatch(t, []uint64{2, 3, 4}, ack.requeued)
}

func TestDeadLetterQueue(t *testing.T) {
	assert.Equal(t, "chat_jobs.dlq", DeadLetterQueue("chat_jobs"))
}
