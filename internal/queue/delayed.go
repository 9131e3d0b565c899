/**
 * @description
 * Delayed reminder queue. RabbitMQ alone has no native per-message delay, so
 * scheduled jobs wait in a Redis sorted set scored by their absolute fire
 * time. A small pump loop promotes due jobs to the notifications exchange,
 * where the dispatcher picks them up. Jobs therefore leave the sorted set in
 * fire-time order, not enqueue order.
 */
package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pailon/PayPlanner/internal/domain"
)

const (
	// delayedSetKey is the sorted set holding jobs that have not fired yet.
	delayedSetKey = "reminder_jobs:delayed"
	// ReminderRoutingKey routes promoted jobs to the dispatcher's queue.
	ReminderRoutingKey = "reminder.due"
)

// Publisher sends a promoted job onward to the message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
}

// DelayedQueue stores reminder jobs until their fire time elapses.
type DelayedQueue struct {
	client    *redis.Client
	publisher Publisher
	logger    *slog.Logger
	pollEvery time.Duration
}

// NewDelayedQueue creates a delayed queue pumping into the given publisher.
func NewDelayedQueue(client *redis.Client, publisher Publisher, logger *slog.Logger) *DelayedQueue {
	return &DelayedQueue{
		client:    client,
		publisher: publisher,
		logger:    logger,
		pollEvery: 15 * time.Second,
	}
}

// Enqueue stores a job keyed by its fire time.
func (q *DelayedQueue) Enqueue(ctx context.Context, job domain.ReminderJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.ZAdd(ctx, delayedSetKey, redis.Z{
		Score:  float64(job.FireAt.Unix()),
		Member: string(body),
	}).Err()
}

// Run pumps due jobs to the broker until ctx is canceled.
func (q *DelayedQueue) Run(ctx context.Context) {
	ticker := time.NewTicker(q.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			q.logger.Info("delayed queue pump stopping")
			return
		case <-ticker.C:
			q.pump(ctx)
		}
	}
}

// pump promotes every job whose fire time has passed. A job is removed from
// the sorted set only after a successful publish, so a broker outage leaves
// it in place for the next tick.
func (q *DelayedQueue) pump(ctx context.Context) {
	now := time.Now()
	members, err := q.client.ZRangeByScore(ctx, delayedSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		q.logger.Error("failed to read due reminder jobs", "error", err)
		return
	}

	for _, member := range members {
		if err := q.publisher.Publish(ctx, ReminderRoutingKey, json.RawMessage(member)); err != nil {
			q.logger.Error("failed to promote reminder job", "error", err)
			continue
		}
		if err := q.client.ZRem(ctx, delayedSetKey, member).Err(); err != nil {
			q.logger.Error("failed to remove promoted reminder job", "error", err)
		}
	}
}
