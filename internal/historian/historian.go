// Package historian drains the Redis action queue into durable storage.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jason-s-yu/liarsdeck/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ActionSink stores a batch of records; database.ActionStore is the production sink.
type ActionSink interface {
	InsertActions(ctx context.Context, records []cache.GameActionRecord) error
}

// Service pops action records from Redis and writes them in batches.
type Service struct {
	rdb        *redis.Client
	queue      string
	sink       ActionSink
	batchSize  int
	flushDelay time.Duration
	logger     *logrus.Logger

	batch     []cache.GameActionRecord
	lastFlush time.Time
}

func NewService(rdb *redis.Client, queue string, sink ActionSink, batchSize int, flushDelay time.Duration, logger *logrus.Logger) *Service {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Service{
		rdb:        rdb,
		queue:      queue,
		sink:       sink,
		batchSize:  batchSize,
		flushDelay: flushDelay,
		logger:     logger,
		batch:      make([]cache.GameActionRecord, 0, batchSize),
	}
}

// popTimeout is the BLPOP timeout; Redis works in whole seconds.
func (s *Service) popTimeout() time.Duration {
	if s.flushDelay < time.Second {
		return time.Second
	}
	return s.flushDelay
}

// Run consumes the queue until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	s.logger.Infof("historian consuming %s", s.queue)
	s.lastFlush = time.Now()
	for {
		if ctx.Err() != nil {
			s.flush(context.Background())
			s.logger.Info("historian stopped")
			return
		}

		res, err := s.rdb.BLPop(ctx, s.popTimeout(), s.queue).Result()
		switch {
		case errors.Is(err, redis.Nil):
			// timed out with nothing queued
		case err != nil:
			if ctx.Err() == nil {
				s.logger.WithError(err).Error("BLPOP failed")
				time.Sleep(time.Second)
			}
		case len(res) == 2:
			// res[0] is the queue name and res[1] the payload.
			var record cache.GameActionRecord
			if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
				s.logger.WithError(err).Warn("dropping invalid action record")
				break
			}
			s.batch = append(s.batch, record)
		}

		if len(s.batch) >= s.batchSize || (len(s.batch) > 0 && time.Since(s.lastFlush) >= s.flushDelay) {
			s.flush(ctx)
		}
	}
}

func (s *Service) flush(ctx context.Context) {
	s.lastFlush = time.Now()
	if len(s.batch) == 0 {
		return
	}
	batch := make([]cache.GameActionRecord, len(s.batch))
	copy(batch, s.batch)
	s.batch = s.batch[:0]

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.sink.InsertActions(writeCtx, batch); err != nil {
		s.logger.WithError(err).Errorf("failed to store %d actions", len(batch))
		return
	}
	s.logger.Debugf("stored %d actions", len(batch))
}
