package batch

import "time"

type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Priority string

const (
	PriorityImmediate Priority = "immediate"
	PriorityNormal    Priority = "normal"
)

func (p Priority) Valid() bool {
	return p == PriorityImmediate || p == PriorityNormal
}

// Batch is one upload session and everything derived from it. Artifact path
// fields are nil until the corresponding object exists; nil means "not yet
// produced", never "error". Rows are never deleted in normal operation.
type Batch struct {
	ID       string
	UserID   string
	Status   Status
	Priority Priority

	RawAudioPath      *string
	MetadataPath      *string
	CleanedAudioPath  *string
	TranscriptPath    *string
	RawTranscriptPath *string
	EmotionPath       *string

	UploadedAt            time.Time
	RecordingStartedAt    *time.Time
	RecordingEndedAt      *time.Time
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

	RetryCount   int
	ErrorMessage *string
	ErrorStage   *string

	Images []Image
	Notes  []Note
}

// Image is a photo captured during the recording session.
type Image struct {
	BatchID    string
	Path       string
	CapturedAt time.Time
}

// Note is a free-text annotation captured during the recording session.
type Note struct {
	BatchID    string
	Text       string
	CapturedAt time.Time
}

// ProcessingJob is the queue message handed to the compute tier.
type ProcessingJob struct {
	BatchID    string    `json:"batch_id"`
	UserID     string    `json:"user_id"`
	Priority   Priority  `json:"priority"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// CompletionEvent is published once per terminal state.
type CompletionEvent struct {
	BatchID            string            `json:"batch_id"`
	UserID             string            `json:"user_id"`
	Status             Status            `json:"status"`
	RecordingStartedAt string            `json:"recording_started_at"`
	ArtifactPaths      map[string]string `json:"artifact_paths"`
	ErrorMessage       string            `json:"error_message,omitempty"`
	PublishedAt        time.Time         `json:"published_at"`
}

// Validate enforces the completion contract: only terminal statuses, and
// error_message is required for failed events and forbidden otherwise.
func (e CompletionEvent) Validate() error {
	if e.BatchID == "" {
		return ErrMissingBatchID
	}
	if e.UserID == "" {
		return ErrMissingUserID
	}
	if e.Status != StatusCompleted && e.Status != StatusFailed {
		return ErrInvalidEventStatus
	}
	if e.RecordingStartedAt == "" {
		return ErrMissingRecordingStart
	}
	if _, err := time.Parse(time.RFC3339, e.RecordingStartedAt); err != nil {
		return ErrInvalidRecordingStart
	}
	if e.ArtifactPaths == nil {
		return ErrMissingArtifactPaths
	}
	if e.PublishedAt.IsZero() {
		return ErrMissingPublishedAt
	}
	if e.Status == StatusFailed && e.ErrorMessage == "" {
		return ErrMissingErrorMessage
	}
	if e.Status == StatusCompleted && e.ErrorMessage != "" {
		return ErrUnexpectedErrorMessage
	}
	return nil
}
