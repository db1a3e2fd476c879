package batch_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
)

func TestPublishCompletionEventVerbatim(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	uc := app.NewPublishCompletionEvent(publisher)

	// Extra field and odd spacing must survive untouched.
	payload := []byte(`{"batch_id":"b-1",  "user_id":"user-1","status":"completed","recording_started_at":"2026-02-22T14:30:27Z","artifact_paths":{"transcript":"user-1/b-1/transcript/transcript.txt"},"published_at":"2026-02-22T15:00:00Z","x_trace":"abc"}`)

	out, err := uc.Execute(context.Background(), app.PublishCompletionEventInput{Payload: payload})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out.Topic != "users/user-1/batches" {
		t.Fatalf("unexpected topic: %s", out.Topic)
	}
	if len(publisher.payloads) != 1 || !bytes.Equal(publisher.payloads[0], payload) {
		t.Fatal("payload must be published verbatim")
	}
}

func TestPublishCompletionEventMalformedJSON(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	uc := app.NewPublishCompletionEvent(publisher)

	_, err := uc.Execute(context.Background(), app.PublishCompletionEventInput{Payload: []byte(`{"batch_id":`)})
	if !errors.Is(err, app.ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
	if len(publisher.payloads) != 0 {
		t.Fatal("nothing may be published")
	}
}

func TestPublishCompletionEventRequiresSchemaFields(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	uc := app.NewPublishCompletionEvent(publisher)

	// Structurally valid JSON missing artifact_paths and published_at.
	payload := []byte(`{"batch_id":"b-1","user_id":"user-1","status":"completed","recording_started_at":"2026-02-22T14:30:27Z"}`)
	if _, err := uc.Execute(context.Background(), app.PublishCompletionEventInput{Payload: payload}); !errors.Is(err, app.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(publisher.payloads) != 0 {
		t.Fatal("nothing may be published")
	}
}

func TestPublishCompletionEventFailedNeedsErrorMessage(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	uc := app.NewPublishCompletionEvent(publisher)

	withoutMessage := []byte(`{"batch_id":"b-1","user_id":"user-1","status":"failed","recording_started_at":"2026-02-22T14:30:27Z","artifact_paths":{},"published_at":"2026-02-22T15:00:00Z"}`)
	if _, err := uc.Execute(context.Background(), app.PublishCompletionEventInput{Payload: withoutMessage}); !errors.Is(err, app.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	withMessage := []byte(`{"batch_id":"b-1","user_id":"user-1","status":"failed","recording_started_at":"2026-02-22T14:30:27Z","artifact_paths":{},"published_at":"2026-02-22T15:00:00Z","error_message":"denoise crashed"}`)
	out, err := uc.Execute(context.Background(), app.PublishCompletionEventInput{Payload: withMessage})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.BatchID != "b-1" {
		t.Fatalf("unexpected batch id: %s", out.BatchID)
	}
	if len(publisher.payloads) != 1 || !bytes.Equal(publisher.payloads[0], withMessage) {
		t.Fatal("failed event must be published verbatim")
	}
}

func TestPublishCompletionEventPublisherFailure(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{publishErr: errors.New("broker down")}
	uc := app.NewPublishCompletionEvent(publisher)

	payload := []byte(`{"batch_id":"b-1","user_id":"user-1","status":"completed","recording_started_at":"2026-02-22T14:30:27Z","artifact_paths":{},"published_at":"2026-02-22T15:00:00Z"}`)
	if _, err := uc.Execute(context.Background(), app.PublishCompletionEventInput{Payload: payload}); !errors.Is(err, app.ErrPublish) {
		t.Fatalf("expected ErrPublish, got %v", err)
	}
}
