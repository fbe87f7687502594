package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/repository"
)

// OutboxDispatcher publishes stored domain events to a Redis channel and
// marks them delivered. Run periodically by the scheduler.
type OutboxDispatcher struct {
	outbox    repository.EventOutbox
	redis     *redis.Client
	channel   string
	batchSize int
	logger    *zap.Logger
}

func NewOutboxDispatcher(
	outbox repository.EventOutbox,
	redisClient *redis.Client,
	channel string,
	batchSize int,
	logger *zap.Logger,
) *OutboxDispatcher {
	return &OutboxDispatcher{
		outbox:    outbox,
		redis:     redisClient,
		channel:   channel,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Dispatch publishes one batch of unpublished events in occurrence order and
// returns how many were delivered. A publish failure stops the batch so
// ordering is preserved on retry; already published events are marked so they
// are not redelivered by us (the sink owns delivery semantics beyond that).
func (d *OutboxDispatcher) Dispatch(ctx context.Context) (int, error) {
	stored, err := d.outbox.FetchUnpublished(ctx, d.batchSize)
	if err != nil {
		return 0, err
	}
	if len(stored) == 0 {
		return 0, nil
	}

	published := make([]string, 0, len(stored))
	for _, event := range stored {
		if err := d.redis.Publish(ctx, d.channel, event.Payload).Err(); err != nil {
			d.logger.Error("event publish failed",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			break
		}
		published = append(published, event.EventID)
	}

	if len(published) == 0 {
		return 0, nil
	}
	if err := d.outbox.MarkPublished(ctx, published); err != nil {
		return len(published), err
	}

	d.logger.Info("outbox batch dispatched",
		zap.Int("published", len(published)),
		zap.String("channel", d.channel),
	)
	return len(published), nil
}
