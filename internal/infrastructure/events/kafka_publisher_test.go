package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishPaymentRecorded(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, log: zap.NewNop()}

	event := domainRepo.PaymentRecordedEvent{EventID: "ev-1", TenantID: "t-1", EntryID: "e-1", Amount: "200.00", Method: "cash"}
	require.NoError(t, p.PublishPaymentRecorded(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, []byte("t-1"), msg.Key)

	var decoded domainRepo.PaymentRecordedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublishPaymentRecordedError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}, log: zap.NewNop()}
	err := p.PublishPaymentRecorded(context.Background(), domainRepo.PaymentRecordedEvent{})
	assert.ErrorContains(t, err, "broker down")
}
