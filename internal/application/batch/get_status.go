package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

type GetBatchStatusInput struct {
	BatchID string
	UserID  string
}

type BatchImageOutput struct {
	Path       string    `json:"path"`
	CapturedAt time.Time `json:"captured_at"`
}

type BatchMetricsOutput struct {
	RawDurationSeconds    *float64 `json:"raw_duration_seconds,omitempty"`
	SpeechDurationSeconds *float64 `json:"speech_duration_seconds,omitempty"`
	SpeechRatio           *float64 `json:"speech_ratio,omitempty"`
	BytesBeforeDenoise    *int64   `json:"bytes_before_denoise,omitempty"`
	BytesAfterDenoise     *int64   `json:"bytes_after_denoise,omitempty"`
	ExternalJobID         *string  `json:"external_job_id,omitempty"`
	CostEstimateUSD       *float64 `json:"cost_estimate_usd,omitempty"`
	EmotionProvider       *string  `json:"emotion_provider,omitempty"`
	EmotionModelVersion   *string  `json:"emotion_model_version,omitempty"`
}

type GetBatchStatusOutput struct {
	BatchID  string `json:"batch_id"`
	Status   string `json:"status"`
	Priority string `json:"priority"`

	UploadedAt            time.Time  `json:"uploaded_at"`
	RecordingStartedAt    *time.Time `json:"recording_started_at,omitempty"`
	RecordingEndedAt      *time.Time `json:"recording_ended_at,omitempty"`
	ProcessingStartedAt   *time.Time `json:"processing_started_at,omitempty"`
	ProcessingCompletedAt *time.Time `json:"processing_completed_at,omitempty"`
	QueueWaitSeconds      *float64   `json:"queue_wait_seconds,omitempty"`
	ProcessingSeconds     *float64   `json:"processing_seconds,omitempty"`

	// Only artifacts that exist appear; a missing key means not yet
	// produced, and the client must not read it as an error.
	ArtifactPaths map[string]string `json:"artifact_paths"`

	Images  []BatchImageOutput `json:"images"`
	Metrics BatchMetricsOutput `json:"metrics"`

	ErrorMessage *string `json:"error_message,omitempty"`
	ErrorStage   *string `json:"error_stage,omitempty"`
	RetryCount   *int    `json:"retry_count,omitempty"`
}

type GetBatchStatus interface {
	Execute(ctx context.Context, in GetBatchStatusInput) (GetBatchStatusOutput, error)
}

type getBatchStatus struct {
	repo domain.Repository
}

func NewGetBatchStatus(repo domain.Repository) GetBatchStatus {
	return &getBatchStatus{repo: repo}
}

func (uc *getBatchStatus) Execute(ctx context.Context, in GetBatchStatusInput) (GetBatchStatusOutput, error) {
	record, err := uc.repo.GetByIDForUser(ctx, in.BatchID, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return GetBatchStatusOutput{}, uc.notFoundOrForbidden(ctx, in.BatchID)
		}
		return GetBatchStatusOutput{}, fmt.Errorf("%w: %v", ErrIndex, err)
	}

	return batchStatusView(record), nil
}

// notFoundOrForbidden decides which failure to surface once the scoped
// lookup came back empty. The data path never reads the foreign row; the
// unscoped probe only picks the status code.
func (uc *getBatchStatus) notFoundOrForbidden(ctx context.Context, batchID string) error {
	exists, err := uc.repo.ExistsByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	if exists {
		return ErrBatchForbidden
	}
	return ErrBatchNotFound
}

func batchStatusView(record *domain.Batch) GetBatchStatusOutput {
	out := GetBatchStatusOutput{
		BatchID:               record.ID,
		Status:                string(record.Status),
		Priority:              string(record.Priority),
		UploadedAt:            record.UploadedAt,
		RecordingStartedAt:    record.RecordingStartedAt,
		RecordingEndedAt:      record.RecordingEndedAt,
		ProcessingStartedAt:   record.ProcessingStartedAt,
		ProcessingCompletedAt: record.ProcessingCompletedAt,
		QueueWaitSeconds:      record.QueueWaitSeconds,
		ProcessingSeconds:     record.ProcessingSeconds,
		ArtifactPaths:         presentArtifactPaths(record),
		Images:                make([]BatchImageOutput, 0, len(record.Images)),
		Metrics: BatchMetricsOutput{
			RawDurationSeconds:    record.RawDurationSeconds,
			SpeechDurationSeconds: record.SpeechDurationSeconds,
			SpeechRatio:           record.SpeechRatio,
			BytesBeforeDenoise:    record.BytesBeforeDenoise,
			BytesAfterDenoise:     record.BytesAfterDenoise,
			ExternalJobID:         record.ExternalJobID,
			CostEstimateUSD:       record.CostEstimateUSD,
			EmotionProvider:       record.EmotionProvider,
			EmotionModelVersion:   record.EmotionModelVersion,
		},
	}

	for _, image := range record.Images {
		out.Images = append(out.Images, BatchImageOutput{
			Path:       image.Path,
			CapturedAt: image.CapturedAt,
		})
	}

	if record.Status == domain.StatusFailed {
		out.ErrorMessage = record.ErrorMessage
		out.ErrorStage = record.ErrorStage
		retries := record.RetryCount
		out.RetryCount = &retries
	}

	return out
}

func presentArtifactPaths(record *domain.Batch) map[string]string {
	paths := make(map[string]string)
	set := func(artifactType domain.ArtifactType, value *string) {
		if value != nil && *value != "" {
			paths[string(artifactType)] = *value
		}
	}

	set(domain.ArtifactRawAudio, record.RawAudioPath)
	set(domain.ArtifactMetadata, record.MetadataPath)
	set(domain.ArtifactCleanedAudio, record.CleanedAudioPath)
	set(domain.ArtifactTranscript, record.TranscriptPath)

	// Raw transcript and emotion annotation live under the transcript
	// prefix in storage but are reported as their own entries.
	if record.RawTranscriptPath != nil && *record.RawTranscriptPath != "" {
		paths["raw_transcript"] = *record.RawTranscriptPath
	}
	if record.EmotionPath != nil && *record.EmotionPath != "" {
		paths["emotion"] = *record.EmotionPath
	}
	return paths
}
