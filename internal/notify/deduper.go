package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper suppresses duplicate notification deliveries across MQ redeliveries
// using a redis SetNX lock per event id.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl, logger: logger}
}

// AcquireOnce reports whether this is the first time the event is processed.
// When redis is unavailable it fails open: better a duplicate mail than none.
func (d *Deduper) AcquireOnce(ctx context.Context, eventID string) bool {
	key := fmt.Sprintf("dedup:notification:%s", eventID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn("Redis dedup check failed, allowing processing",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return true
	}

	if !ok {
		d.logger.Info("Skipped duplicated notification event",
			zap.String("event_id", eventID),
			zap.String("dedup_key", key),
		)
	}

	return ok
}
