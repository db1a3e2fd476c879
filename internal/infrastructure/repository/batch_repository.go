package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
	"github.com/alirezamp/audio-batch-service/internal/infrastructure/db/models"
)

// BatchRepository is the only index access path. Every user-facing query
// carries user_id in its WHERE clause; ownership cannot be forgotten in a
// handler because it is not checked in handlers at all.
type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) Create(ctx context.Context, b *domain.Batch) error {
	row := toBatchModel(b)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

func (r *BatchRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Batch, error) {
	var row models.Batch

	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Notes").
		First(&row, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("get batch by id: %w", err)
	}

	return toDomainBatch(&row), nil
}

// GetByID is the cross-tenant read reserved for internal operations.
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	var row models.Batch

	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("get batch by id: %w", err)
	}

	return toDomainBatch(&row), nil
}

// ExistsByID answers only "does any row exist", for choosing 403 over 404.
func (r *BatchRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("probe batch existence: %w", err)
	}
	return count > 0, nil
}

// UpdateStatus applies a partial status update. Only supplied fields change,
// and no field uses increment semantics, so re-delivery of the same terminal
// callback writes identical values.
func (r *BatchRepository) UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	if !update.Status.Valid() {
		return fmt.Errorf("update batch %s: invalid status %q", id, update.Status)
	}

	fields := map[string]any{"status": string(update.Status)}
	setIf(fields, "cleaned_audio_path", update.CleanedAudioPath)
	setIf(fields, "transcript_path", update.TranscriptPath)
	setIf(fields, "raw_transcript_path", update.RawTranscriptPath)
	setIf(fields, "emotion_path", update.EmotionPath)
	setIf(fields, "processing_started_at", update.ProcessingStartedAt)
	setIf(fields, "processing_completed_at", update.ProcessingCompletedAt)
	setIf(fields, "queue_wait_seconds", update.QueueWaitSeconds)
	setIf(fields, "processing_seconds", update.ProcessingSeconds)
	setIf(fields, "raw_duration_seconds", update.RawDurationSeconds)
	setIf(fields, "speech_duration_seconds", update.SpeechDurationSeconds)
	setIf(fields, "speech_ratio", update.SpeechRatio)
	setIf(fields, "bytes_before_denoise", update.BytesBeforeDenoise)
	setIf(fields, "bytes_after_denoise", update.BytesAfterDenoise)
	setIf(fields, "external_job_id", update.ExternalJobID)
	setIf(fields, "cost_estimate_usd", update.CostEstimateUSD)
	setIf(fields, "emotion_provider", update.EmotionProvider)
	setIf(fields, "emotion_model_version", update.EmotionModelVersion)
	setIf(fields, "error_message", update.ErrorMessage)
	setIf(fields, "error_stage", update.ErrorStage)

	result := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update batch %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

// ResetForReprocess puts a failed batch back at uploaded, clears the failure
// fields, and counts the attempt. The artifact paths stay: the source audio
// is reused, not re-uploaded.
func (r *BatchRepository) ResetForReprocess(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ? AND status = ?", id, string(domain.StatusFailed)).
		Updates(map[string]any{
			"status":                  string(domain.StatusUploaded),
			"error_message":           nil,
			"error_stage":             nil,
			"processing_started_at":   nil,
			"processing_completed_at": nil,
			"retry_count":             gorm.Expr("retry_count + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("reset batch %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

func (r *BatchRepository) List(ctx context.Context, userID string, filter domain.ListFilter, limit, offset int) ([]domain.Batch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Batch{}).Where("user_id = ?", userID)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.StartDate != nil {
		query = query.Where("uploaded_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("uploaded_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count batches: %w", err)
	}

	var rows []models.Batch
	if err := query.
		Order("uploaded_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}

	out := make([]domain.Batch, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomainBatch(&rows[i]))
	}
	return out, total, nil
}

func setIf[T any](fields map[string]any, column string, value *T) {
	if value != nil {
		fields[column] = *value
	}
}

func toBatchModel(b *domain.Batch) models.Batch {
	return models.Batch{
		ID:                    b.ID,
		UserID:                b.UserID,
		Status:                string(b.Status),
		Priority:              string(b.Priority),
		RawAudioPath:          b.RawAudioPath,
		MetadataPath:          b.MetadataPath,
		CleanedAudioPath:      b.CleanedAudioPath,
		TranscriptPath:        b.TranscriptPath,
		RawTranscriptPath:     b.RawTranscriptPath,
		EmotionPath:           b.EmotionPath,
		UploadedAt:            b.UploadedAt,
		RecordingStartedAt:    b.RecordingStartedAt,
		RecordingEndedAt:      b.RecordingEndedAt,
		ProcessingStartedAt:   b.ProcessingStartedAt,
		ProcessingCompletedAt: b.ProcessingCompletedAt,
		QueueWaitSeconds:      b.QueueWaitSeconds,
		ProcessingSeconds:     b.ProcessingSeconds,
		RawDurationSeconds:    b.RawDurationSeconds,
		SpeechDurationSeconds: b.SpeechDurationSeconds,
		SpeechRatio:           b.SpeechRatio,
		BytesBeforeDenoise:    b.BytesBeforeDenoise,
		BytesAfterDenoise:     b.BytesAfterDenoise,
		ExternalJobID:         b.ExternalJobID,
		CostEstimateUSD:       b.CostEstimateUSD,
		EmotionProvider:       b.EmotionProvider,
		EmotionModelVersion:   b.EmotionModelVersion,
		RetryCount:            b.RetryCount,
		ErrorMessage:          b.ErrorMessage,
		ErrorStage:            b.ErrorStage,
	}
}

func toDomainBatch(row *models.Batch) *domain.Batch {
	b := &domain.Batch{
		ID:                    row.ID,
		UserID:                row.UserID,
		Status:                domain.Status(row.Status),
		Priority:              domain.Priority(row.Priority),
		RawAudioPath:          row.RawAudioPath,
		MetadataPath:          row.MetadataPath,
		CleanedAudioPath:      row.CleanedAudioPath,
		TranscriptPath:        row.TranscriptPath,
		RawTranscriptPath:     row.RawTranscriptPath,
		EmotionPath:           row.EmotionPath,
		UploadedAt:            row.UploadedAt,
		RecordingStartedAt:    row.RecordingStartedAt,
		RecordingEndedAt:      row.RecordingEndedAt,
		ProcessingStartedAt:   row.ProcessingStartedAt,
		ProcessingCompletedAt: row.ProcessingCompletedAt,
		QueueWaitSeconds:      row.QueueWaitSeconds,
		ProcessingSeconds:     row.ProcessingSeconds,
		RawDurationSeconds:    row.RawDurationSeconds,
		SpeechDurationSeconds: row.SpeechDurationSeconds,
		SpeechRatio:           row.SpeechRatio,
		BytesBeforeDenoise:    row.BytesBeforeDenoise,
		BytesAfterDenoise:     row.BytesAfterDenoise,
		ExternalJobID:         row.ExternalJobID,
		CostEstimateUSD:       row.CostEstimateUSD,
		EmotionProvider:       row.EmotionProvider,
		EmotionModelVersion:   row.EmotionModelVersion,
		RetryCount:            row.RetryCount,
		ErrorMessage:          row.ErrorMessage,
		ErrorStage:            row.ErrorStage,
	}

	for _, image := range row.Images {
		b.Images = append(b.Images, domain.Image{
			BatchID:    image.BatchID,
			Path:       image.Path,
			CapturedAt: image.CapturedAt,
		})
	}
	for _, note := range row.Notes {
		b.Notes = append(b.Notes, domain.Note{
			BatchID:    note.BatchID,
			Text:       note.Text,
			CapturedAt: note.CapturedAt,
		})
	}

	return b
}
