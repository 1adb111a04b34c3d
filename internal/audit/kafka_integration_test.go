//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"lowa/internal/audit"
	"lowa/internal/platform/config"
	"lowa/internal/platform/kafka"
	"lowa/pkg/testutil/containers"
)

func TestKafkaStoreProducesKeyedEvents(t *testing.T) {
	broker := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := config.KafkaConfig{Brokers: []string{broker.Broker}, AuditTopic: "lowa.audit.test", Partitions: 3}
	producer, err := kafka.NewClient(cfg)
	require.NoError(t, err)
	defer producer.Close()

	require.NoError(t, kafka.EnsureTopic(ctx, producer, cfg.AuditTopic, cfg.Partitions))
	// A second call must tolerate the existing topic.
	require.NoError(t, kafka.EnsureTopic(ctx, producer, cfg.AuditTopic, cfg.Partitions))

	pub := audit.NewPublisher(audit.NewKafkaStore(producer, cfg.AuditTopic))
	contactID := uuid.New()
	recordID := uuid.New()
	require.NoError(t, pub.Emit(ctx, audit.Event{
		Type:      audit.EventInvitationCreated,
		RecordID:  recordID,
		ContactID: contactID,
		RequestID: "req-kafka",
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(cfg.AuditTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) == 0 {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) { records = append(records, r) })
	}

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, contactID.String(), string(rec.Key))
	require.Len(t, rec.Headers, 1)
	assert.Equal(t, "event_type", rec.Headers[0].Key)
	assert.Equal(t, string(audit.EventInvitationCreated), string(rec.Headers[0].Value))

	var got audit.Event
	require.NoError(t, json.Unmarshal(rec.Value, &got))
	assert.Equal(t, recordID, got.RecordID)
	assert.Equal(t, "req-kafka", got.RequestID)
	assert.NotEqual(t, uuid.Nil, got.ID)
}
