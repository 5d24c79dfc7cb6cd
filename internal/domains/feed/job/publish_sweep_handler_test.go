package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardfolio-backend/internal/shared"
)

type fakePublisher struct {
	count int64
	err   error
	calls int
}

func (p *fakePublisher) BulkPublish(ctx context.Context) (int64, error) {
	p.calls++
	return p.count, p.err
}

type recordingCache struct {
	patterns []string
}

func (c *recordingCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (c *recordingCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (c *recordingCache) DeletePattern(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}
func (c *recordingCache) Ping(ctx context.Context) error { return nil }

func sweepTask() *asynq.Task {
	return asynq.NewTask(shared.TypePublishSweep, nil)
}

func TestPublishSweepInvalidatesFeedCache(t *testing.T) {
	publisher := &fakePublisher{count: 3}
	cacheClient := &recordingCache{}
	handler := NewPublishSweepHandler(publisher, cacheClient)

	err := handler.ProcessTask(context.Background(), sweepTask())
	require.NoError(t, err)

	assert.Equal(t, 1, publisher.calls)
	assert.Equal(t, []string{"feed:*"}, cacheClient.patterns)
}

func TestPublishSweepNoChangesKeepsCache(t *testing.T) {
	publisher := &fakePublisher{count: 0}
	cacheClient := &recordingCache{}
	handler := NewPublishSweepHandler(publisher, cacheClient)

	err := handler.ProcessTask(context.Background(), sweepTask())
	require.NoError(t, err)

	assert.Empty(t, cacheClient.patterns, "empty sweep leaves the cache alone")
}

func TestPublishSweepPropagatesFailure(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("database down")}
	handler := NewPublishSweepHandler(publisher, nil)

	err := handler.ProcessTask(context.Background(), sweepTask())
	assert.Error(t, err, "failed sweeps must be retried by the queue")
}
