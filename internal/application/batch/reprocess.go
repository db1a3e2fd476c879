package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

type ReprocessBatchInput struct {
	BatchID string
}

type ReprocessBatchOutput struct {
	BatchID    string    `json:"batch_id"`
	Status     string    `json:"status"`
	RequeuedAt time.Time `json:"requeued_at"`
}

type ReprocessBatch interface {
	Execute(ctx context.Context, in ReprocessBatchInput) (ReprocessBatchOutput, error)
}

type reprocessBatch struct {
	repo    domain.Repository
	storage domain.ObjectStorage
	router  *QueueRouter
	logger  zerolog.Logger
}

func NewReprocessBatch(repo domain.Repository, storage domain.ObjectStorage, router *QueueRouter, logger zerolog.Logger) ReprocessBatch {
	return &reprocessBatch{
		repo:    repo,
		storage: storage,
		router:  router,
		logger:  logger,
	}
}

// Execute resets a failed batch and re-enqueues it with its original
// priority. Only failed batches qualify, and never without the source audio
// confirmed present: a HEAD probe, not a read, verifies the object.
func (uc *reprocessBatch) Execute(ctx context.Context, in ReprocessBatchInput) (ReprocessBatchOutput, error) {
	record, err := uc.repo.GetByID(ctx, in.BatchID)
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return ReprocessBatchOutput{}, ErrBatchNotFound
		}
		return ReprocessBatchOutput{}, fmt.Errorf("%w: %v", ErrIndex, err)
	}

	if record.Status != domain.StatusFailed {
		return ReprocessBatchOutput{}, fmt.Errorf("%w: status is %s", ErrConflict, record.Status)
	}

	if record.RawAudioPath == nil || *record.RawAudioPath == "" {
		return ReprocessBatchOutput{}, fmt.Errorf("%w: batch has no raw audio path", ErrBatchNotFound)
	}

	exists, err := uc.storage.Head(ctx, *record.RawAudioPath)
	if err != nil {
		return ReprocessBatchOutput{}, fmt.Errorf("%w: head %s: %v", ErrStorage, *record.RawAudioPath, err)
	}
	if !exists {
		return ReprocessBatchOutput{}, fmt.Errorf("%w: raw audio object missing at %s", ErrBatchNotFound, *record.RawAudioPath)
	}

	if err := uc.repo.ResetForReprocess(ctx, record.ID); err != nil {
		return ReprocessBatchOutput{}, fmt.Errorf("%w: %v", ErrIndex, err)
	}

	requeuedAt := time.Now().UTC()
	job := domain.ProcessingJob{
		BatchID:    record.ID,
		UserID:     record.UserID,
		Priority:   record.Priority,
		EnqueuedAt: requeuedAt,
	}
	if err := uc.router.Route(ctx, job); err != nil {
		// Same recovery surface as ingest: batch sits at uploaded with
		// no job until the next reprocess call.
		uc.logger.Error().
			Str("event", "unqueued_batch").
			Str("batch_id", record.ID).
			Str("user_id", record.UserID).
			Err(err).
			Msg("batch reset but no job enqueued")
		return ReprocessBatchOutput{}, fmt.Errorf("%w: %v", ErrQueue, err)
	}

	return ReprocessBatchOutput{
		BatchID:    record.ID,
		Status:     string(domain.StatusUploaded),
		RequeuedAt: requeuedAt,
	}, nil
}
