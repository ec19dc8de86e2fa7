package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/car-advisor/internal/logging"
)

// JobHandler processes one job. A returned error dead-letters the delivery.
type JobHandler func(ctx context.Context, jobID string) error

type Consumer struct {
	conn        *amqp.Connection
	ch          *amqp.Channel
	queue       string
	concurrency int
}

func NewConsumer(url, queue string, concurrency int) (*Consumer, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := DeclareQueues(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	// strict concurrency control
	if err := ch.Qos(concurrency, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Consumer{conn: conn, ch: ch, queue: queue, concurrency: concurrency}, nil
}

func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Run consumes until ctx is done, then waits for in-flight jobs.
func (c *Consumer) Run(ctx context.Context, handle JobHandler) error {
	msgs, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	logging.Info().Str("queue", c.queue).Int("concurrency", c.concurrency).Msg("worker started")
	return Dispatch(ctx, msgs, c.concurrency, handle)
}

var errDeliveriesClosed = errors.New("rabbitmq: delivery channel closed")

// JobTimeout bounds a job that is still running when shutdown begins.
const JobTimeout = 2 * time.Minute

// Dispatch fans deliveries out to a fixed pool of workers. It acks on
// success and nacks without requeue otherwise, so failed jobs land in the DLQ.
// Once ctx is done, deliveries that have not started are requeued and
// running jobs finish on a context detached from ctx.
func Dispatch(ctx context.Context, msgs <-chan amqp.Delivery, concurrency int, handle JobHandler) error {
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				if ctx.Err() != nil {
					requeue(d)
					continue
				}
				handleDelivery(ctx, workerID, d, handle)
			}
		}(i)
	}

	stop := func() {
		close(jobs)
		drainPending(msgs)
		wg.Wait()
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("worker shutting down")
			stop()
			return nil

		case d, ok := <-msgs:
			if !ok {
				close(jobs)
				wg.Wait()
				return errDeliveriesClosed
			}
			select {
			case jobs <- d:
			case <-ctx.Done():
				requeue(d)
				logging.Info().Msg("worker shutting down")
				stop()
				return nil
			}
		}
	}
}

// drainPending requeues deliveries already prefetched into msgs.
func drainPending(msgs <-chan amqp.Delivery) {
	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				return
			}
			requeue(d)
		default:
			return
		}
	}
}

func requeue(d amqp.Delivery) {
	if err := d.Nack(false, true); err != nil {
		logging.Warn().Uint64("delivery_tag", d.DeliveryTag).Err(err).Msg("requeue failed")
	}
}

func handleDelivery(ctx context.Context, workerID int, d amqp.Delivery, handle JobHandler) {
	var m JobMessage
	if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
		logging.Warn().Int("worker", workerID).Err(err).Msg("bad job message")
		_ = d.Nack(false, false)
		return
	}

	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), JobTimeout)
	defer cancel()

	start := time.Now()
	if err := handle(jobCtx, m.JobID); err != nil {
		logging.Error().Int("worker", workerID).Str("job_id", m.JobID).
			Dur("cost", time.Since(start)).Err(err).Msg("job failed")
		_ = d.Nack(false, false)
		return
	}

	if err := d.Ack(false); err != nil {
		logging.Warn().Int("worker", workerID).Str("job_id", m.JobID).Err(err).Msg("ack failed")
	}
}
