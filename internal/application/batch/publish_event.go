package batch

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

type PublishCompletionEventInput struct {
	Payload []byte
}

type PublishCompletionEventOutput struct {
	BatchID string `json:"batch_id"`
	Topic   string `json:"topic"`
}

type PublishCompletionEvent interface {
	Execute(ctx context.Context, in PublishCompletionEventInput) (PublishCompletionEventOutput, error)
}

type publishCompletionEvent struct {
	publisher domain.EventPublisher
}

func NewPublishCompletionEvent(publisher domain.EventPublisher) PublishCompletionEvent {
	return &publishCompletionEvent{publisher: publisher}
}

// Execute validates the event contract and publishes the original payload
// bytes verbatim; no re-encoding, so downstream consumers see exactly what
// the compute tier emitted.
func (uc *publishCompletionEvent) Execute(ctx context.Context, in PublishCompletionEventInput) (PublishCompletionEventOutput, error) {
	var event domain.CompletionEvent
	if err := json.Unmarshal(in.Payload, &event); err != nil {
		return PublishCompletionEventOutput{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if err := event.Validate(); err != nil {
		return PublishCompletionEventOutput{}, newValidationError(err.Error())
	}

	topic := UserEventTopic(event.UserID)
	if err := uc.publisher.Publish(ctx, topic, in.Payload); err != nil {
		return PublishCompletionEventOutput{}, fmt.Errorf("%w: topic %s: %v", ErrPublish, topic, err)
	}

	return PublishCompletionEventOutput{
		BatchID: event.BatchID,
		Topic:   topic,
	}, nil
}
