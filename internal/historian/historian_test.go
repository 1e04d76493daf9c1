// internal/historian/historian_test.go
package historian

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jason-s-yu/liarsdeck/internal/cache"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu      sync.Mutex
	batches [][]cache.GameActionRecord
	fail    bool
}

func (f *fakeSink) InsertActions(_ context.Context, records []cache.GameActionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("db down")
	}
	f.batches = append(f.batches, records)
	return nil
}

func (f *fakeSink) records() []cache.GameActionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []cache.GameActionRecord
	for _, b := range f.batches {
		out = append(out, b...)
	}
	return out
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestServiceBatchesQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := cache.Connect(ctx, mr.Addr(), 0)
	require.NoError(t, err)
	defer rdb.Close()

	pub := cache.NewPublisher(rdb, "test_actions")
	gameID := uuid.New()
	for i := 1; i <= 5; i++ {
		require.NoError(t, pub.PublishGameAction(ctx, cache.GameActionRecord{
			GameID:      gameID,
			RoomID:      "ABCDE",
			ActionIndex: i,
			ActionType:  "submit_card",
		}))
	}
	_, err = mr.Lpush("test_actions", "not json")
	require.NoError(t, err)

	sink := &fakeSink{}
	svc := NewService(rdb, "test_actions", sink, 2, 50*time.Millisecond, quietLogger())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(sink.records()) == 5 }, 5*time.Second, 20*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("historian did not stop")
	}

	recs := sink.records()
	for i, rec := range recs {
		assert.Equal(t, gameID, rec.GameID)
		assert.Equal(t, i+1, rec.ActionIndex, "queue order is preserved")
	}
	for _, b := range sink.batches {
		assert.LessOrEqual(t, len(b), 2)
	}
	assert.False(t, mr.Exists("test_actions"), "the invalid record was consumed and dropped")
}

func TestFlushKeepsRunningWhenSinkFails(t *testing.T) {
	sink := &fakeSink{fail: true}
	svc := NewService(nil, "q", sink, 0, time.Millisecond, quietLogger())
	assert.Equal(t, 1, svc.batchSize)
	assert.Equal(t, time.Second, svc.popTimeout())

	svc.batch = append(svc.batch, cache.GameActionRecord{ActionIndex: 1})
	svc.flush(context.Background())
	assert.Empty(t, svc.batch)
	assert.Empty(t, sink.records())
}
