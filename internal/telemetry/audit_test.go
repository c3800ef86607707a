package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"collective-chat-service/internal/mocks"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "audit.chat_queue", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		if !ok {
			return false
		}
		return envelope.SchemaVersion == 1 &&
			envelope.EventType == "audit_log" &&
			envelope.Service == "collective-chat-service" &&
			envelope.Environment == "test" &&
			envelope.RequestID == "req-1" &&
			envelope.UserID != nil && *envelope.UserID == 42 &&
			envelope.Payload.Level == "INFO" &&
			envelope.Payload.Text == "Queue created"
	})).Return(nil)

	emitter := NewAuditEmitter(publisher, "audit.chat_queue", "collective-chat-service", "test")
	userID := int64(42)
	emitter.Emit(context.Background(), "INFO", "Queue created", "req-1", &userID)

	publisher.AssertExpectations(t)
}

func TestEmitWithoutUserID(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "audit.chat_queue", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		return ok && envelope.UserID == nil
	})).Return(nil)

	emitter := NewAuditEmitter(publisher, "audit.chat_queue", "collective-chat-service", "test")
	emitter.Emit(context.Background(), "ERROR", "invalid request payload", "req-2", nil)

	publisher.AssertExpectations(t)
}

func TestEmitSwallowsPublishError(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	emitter := NewAuditEmitter(publisher, "audit.chat_queue", "collective-chat-service", "test")
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "Queue joined", "req-3", nil)
	})
}

func TestNilEmitterIsSafe(t *testing.T) {
	var emitter *AuditEmitter
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "noop", "req-4", nil)
	})
}

func TestNilPublisherIsSafe(t *testing.T) {
	emitter := NewAuditEmitter(nil, "audit.chat_queue", "collective-chat-service", "test")
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "noop", "req-5", nil)
	})
}
