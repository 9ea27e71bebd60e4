package outbox

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intern-match-go/internal/storage/models"
)

func TestApplyPublishResultSuccess(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	msg := &models.OutboxMessage{Status: models.OutboxStatusPending, RetryCount: 2, ErrorMessage: "old"}

	applyPublishResult(msg, nil, 5, now)

	assert.Equal(t, models.OutboxStatusSent, msg.Status)
	require.NotNil(t, msg.ProcessedAt)
	assert.Equal(t, now, *msg.ProcessedAt)
	assert.Empty(t, msg.ErrorMessage)
	assert.Equal(t, 2, msg.RetryCount)
}

func TestApplyPublishResultRetriesThenFails(t *testing.T) {
	msg := &models.OutboxMessage{Status: models.OutboxStatusPending}
	boom := errors.New("channel closed")

	for i := 1; i < 3; i++ {
		applyPublishResult(msg, boom, 3, time.Now())
		assert.Equal(t, models.OutboxStatusPending, msg.Status)
		assert.Equal(t, i, msg.RetryCount)
	}
	applyPublishResult(msg, boom, 3, time.Now())
	assert.Equal(t, models.OutboxStatusFailed, msg.Status)
	assert.Equal(t, "channel closed", msg.ErrorMessage)
	assert.Nil(t, msg.ProcessedAt)
}

func TestRelayOptions(t *testing.T) {
	r := NewMessageRelay(nil, nil, zerolog.Nop(),
		WithPollingInterval(time.Second),
		WithBatchSize(3),
		WithMaxRetry(7),
		WithBatchSize(0), // 非法值被忽略
	)
	assert.Equal(t, time.Second, r.pollingInterval)
	assert.Equal(t, 3, r.batchSize)
	assert.Equal(t, 7, r.maxRetry)
}

func TestRelayStartStop(t *testing.T) {
	r := NewMessageRelay(nil, nil, zerolog.Nop(), WithPollingInterval(time.Hour))
	r.Start()
	r.Stop()
	r.Stop()
}
