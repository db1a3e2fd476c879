package batch

import (
	"context"
	"time"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status    Status
	StartDate *time.Time
	EndDate   *time.Time
}

// StatusUpdate is a partial, idempotent update keyed by batch id. Only
// non-nil fields change; re-applying the same terminal update is a no-op.
type StatusUpdate struct {
	Status                Status
	CleanedAudioPath      *string
	TranscriptPath        *string
	RawTranscriptPath     *string
	EmotionPath           *string
	ProcessingStartedAt   *time.Time
	ProcessingCompletedAt *time.Time
	QueueWaitSeconds      *float64
	ProcessingSeconds     *float64
	RawDurationSeconds    *float64
	SpeechDurationSeconds *float64
	SpeechRatio           *float64
	BytesBeforeDenoise    *int64
	BytesAfterDenoise     *int64
	ExternalJobID         *string
	CostEstimateUSD       *float64
	EmotionProvider       *string
	EmotionModelVersion   *string
	ErrorMessage          *string
	ErrorStage            *string
}

// Repository is the only index access surface. Every operation that serves
// request traffic carries user_id in its predicate; GetByID and ExistsByID
// are the two deliberate cross-tenant exceptions (internal reprocess, and
// the 403-vs-404 probe).
type Repository interface {
	Create(ctx context.Context, b *Batch) error
	GetByIDForUser(ctx context.Context, id, userID string) (*Batch, error)
	GetByID(ctx context.Context, id string) (*Batch, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id string, update StatusUpdate) error
	ResetForReprocess(ctx context.Context, id string) error
	List(ctx context.Context, userID string, filter ListFilter, limit, offset int) ([]Batch, int64, error)
}

// ChildStore persists the image and note collections under a batch. Both
// inserts are batched and are no-ops on empty input.
type ChildStore interface {
	InsertImages(ctx context.Context, images []Image) error
	InsertNotes(ctx context.Context, notes []Note) error
}

// ObjectStorage is the durable artifact store (R2 behind an S3 API).
type ObjectStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Head(ctx context.Context, key string) (bool, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// JobQueue delivers processing jobs to a named queue, at least once.
type JobQueue interface {
	Send(ctx context.Context, queueName string, job ProcessingJob) error
}

// EventPublisher pushes a payload to a pub/sub topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
