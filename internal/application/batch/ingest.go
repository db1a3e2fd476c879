package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

const metadataObjectName = "metadata.json"
const notesObjectName = "notes.json"

type IngestImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

type IngestInput struct {
	UserID           string
	AudioFilename    string
	AudioContentType string
	Audio            []byte
	Metadata         []byte
	Images           []IngestImage
}

type IngestOutput struct {
	BatchID    string    `json:"batch_id"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type IngestBatch interface {
	Execute(ctx context.Context, in IngestInput) (IngestOutput, error)
}

type ingestBatch struct {
	repo     domain.Repository
	children domain.ChildStore
	storage  domain.ObjectStorage
	router   *QueueRouter
	logger   zerolog.Logger
}

func NewIngestBatch(repo domain.Repository, children domain.ChildStore, storage domain.ObjectStorage, router *QueueRouter, logger zerolog.Logger) IngestBatch {
	return &ingestBatch{
		repo:     repo,
		children: children,
		storage:  storage,
		router:   router,
		logger:   logger,
	}
}

// Execute drives the three ingest writes in a fixed order: object storage,
// then index, then queue. The three systems share no transaction, so each
// failure past the first write emits a diagnostic naming the partial state
// before the request fails; those events are the only reconciliation hook.
func (uc *ingestBatch) Execute(ctx context.Context, in IngestInput) (IngestOutput, error) {
	meta, err := ParseUploadMetadata(in.Metadata)
	if err != nil {
		return IngestOutput{}, err
	}
	if len(in.Audio) == 0 {
		return IngestOutput{}, newValidationError("audio part is empty")
	}
	capturedAt, err := matchImages(meta.Images, in.Images)
	if err != nil {
		return IngestOutput{}, err
	}

	batchID, err := domain.NewBatchID(meta.RecordingStartedAt)
	if err != nil {
		return IngestOutput{}, newValidationError("recording_started_at must be RFC 3339")
	}

	// The user id comes from the authenticated identity, never from the
	// request body; it is the tenancy key of every path built here.
	audioPath, err := domain.BuildArtifactPath(in.UserID, batchID, domain.ArtifactRawAudio, in.AudioFilename)
	if err != nil {
		return IngestOutput{}, newValidationError(fmt.Sprintf("audio filename rejected: %v", err))
	}
	metadataPath, err := domain.BuildArtifactPath(in.UserID, batchID, domain.ArtifactMetadata, metadataObjectName)
	if err != nil {
		return IngestOutput{}, newValidationError(err.Error())
	}
	imagePaths := make([]domain.ArtifactPath, 0, len(in.Images))
	for _, image := range in.Images {
		imagePath, err := domain.BuildArtifactPath(in.UserID, batchID, domain.ArtifactImages, image.Filename)
		if err != nil {
			return IngestOutput{}, newValidationError(fmt.Sprintf("image filename rejected: %v", err))
		}
		imagePaths = append(imagePaths, imagePath)
	}

	written, err := uc.writeArtifacts(ctx, audioPath, metadataPath, imagePaths, in, meta)
	if err != nil {
		if len(written) > 0 {
			uc.logOrphans(batchID, written, err)
		}
		return IngestOutput{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	uploadedAt := time.Now().UTC()
	record := buildBatchRecord(batchID, in.UserID, meta, audioPath, metadataPath, uploadedAt)

	if err := uc.indexBatch(ctx, record, meta, imagePaths, capturedAt); err != nil {
		uc.logOrphans(batchID, written, err)
		return IngestOutput{}, fmt.Errorf("%w: %v", ErrIndex, err)
	}

	job := domain.ProcessingJob{
		BatchID:    batchID,
		UserID:     in.UserID,
		Priority:   record.Priority,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := uc.router.Route(ctx, job); err != nil {
		uc.logger.Error().
			Str("event", "unqueued_batch").
			Str("batch_id", batchID).
			Str("user_id", in.UserID).
			Err(err).
			Msg("batch indexed but no job enqueued; reprocess to recover")
		return IngestOutput{}, fmt.Errorf("%w: %v", ErrQueue, err)
	}

	return IngestOutput{
		BatchID:    batchID,
		Status:     string(domain.StatusUploaded),
		UploadedAt: uploadedAt,
	}, nil
}

func (uc *ingestBatch) writeArtifacts(ctx context.Context, audioPath, metadataPath domain.ArtifactPath, imagePaths []domain.ArtifactPath, in IngestInput, meta UploadMetadata) ([]string, error) {
	written := make([]string, 0, len(imagePaths)+3)

	if err := uc.storage.Put(ctx, audioPath.String(), in.Audio, in.AudioContentType); err != nil {
		return written, fmt.Errorf("put raw audio: %w", err)
	}
	written = append(written, audioPath.String())

	if err := uc.storage.Put(ctx, metadataPath.String(), in.Metadata, "application/json"); err != nil {
		return written, fmt.Errorf("put metadata: %w", err)
	}
	written = append(written, metadataPath.String())

	for i, image := range in.Images {
		if err := uc.storage.Put(ctx, imagePaths[i].String(), image.Data, image.ContentType); err != nil {
			return written, fmt.Errorf("put image %s: %w", image.Filename, err)
		}
		written = append(written, imagePaths[i].String())
	}

	if len(meta.Notes) > 0 {
		notesPath, err := domain.BuildArtifactPath(in.UserID, audioPath.BatchID, domain.ArtifactNotes, notesObjectName)
		if err != nil {
			return written, err
		}
		notesBody, err := json.Marshal(meta.Notes)
		if err != nil {
			return written, fmt.Errorf("encode notes: %w", err)
		}
		if err := uc.storage.Put(ctx, notesPath.String(), notesBody, "application/json"); err != nil {
			return written, fmt.Errorf("put notes: %w", err)
		}
		written = append(written, notesPath.String())
	}

	return written, nil
}

func (uc *ingestBatch) indexBatch(ctx context.Context, record *domain.Batch, meta UploadMetadata, imagePaths []domain.ArtifactPath, capturedAt map[string]time.Time) error {
	if err := uc.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("create batch row: %w", err)
	}

	// Pair the capture time by filename, not by part index; clients are not
	// required to order the multipart parts the way the metadata lists them.
	images := make([]domain.Image, 0, len(imagePaths))
	for _, imagePath := range imagePaths {
		images = append(images, domain.Image{
			BatchID:    record.ID,
			Path:       imagePath.String(),
			CapturedAt: capturedAt[imagePath.Filename],
		})
	}
	if err := uc.children.InsertImages(ctx, images); err != nil {
		return fmt.Errorf("insert image rows: %w", err)
	}

	notes := make([]domain.Note, 0, len(meta.Notes))
	for _, note := range meta.Notes {
		notes = append(notes, domain.Note{
			BatchID:    record.ID,
			Text:       note.Text,
			CapturedAt: note.CapturedAt,
		})
	}
	if err := uc.children.InsertNotes(ctx, notes); err != nil {
		return fmt.Errorf("insert note rows: %w", err)
	}

	return nil
}

// logOrphans records every object already written for a batch whose index
// row could not be created. Nothing else points at those objects.
func (uc *ingestBatch) logOrphans(batchID string, written []string, cause error) {
	uc.logger.Error().
		Str("event", "orphaned_r2_artifacts").
		Str("batch_id", batchID).
		Strs("paths", written).
		Err(cause).
		Msg("objects written but index row missing")
}

// matchImages pairs every uploaded image part with its declared metadata
// entry by filename and returns the filename -> captured_at mapping.
// Duplicate filenames on either side are rejected: they would make the
// pairing ambiguous and the object keys would collide.
func matchImages(declared []MetadataImage, uploaded []IngestImage) (map[string]time.Time, error) {
	capturedAt := make(map[string]time.Time, len(declared))
	for _, image := range declared {
		if _, ok := capturedAt[image.Filename]; ok {
			return nil, newValidationError(fmt.Sprintf("metadata declares image %q more than once", image.Filename))
		}
		capturedAt[image.Filename] = image.CapturedAt
	}

	seen := make(map[string]bool, len(uploaded))
	for _, image := range uploaded {
		if _, ok := capturedAt[image.Filename]; !ok {
			return nil, newValidationError(fmt.Sprintf("image %q has no metadata entry", image.Filename))
		}
		if seen[image.Filename] {
			return nil, newValidationError(fmt.Sprintf("image %q uploaded more than once", image.Filename))
		}
		seen[image.Filename] = true
	}
	if len(uploaded) != len(declared) {
		return nil, newValidationError(fmt.Sprintf("metadata declares %d images, %d uploaded", len(declared), len(uploaded)))
	}
	return capturedAt, nil
}

func buildBatchRecord(batchID, userID string, meta UploadMetadata, audioPath, metadataPath domain.ArtifactPath, uploadedAt time.Time) *domain.Batch {
	rawAudio := audioPath.String()
	metadata := metadataPath.String()

	record := &domain.Batch{
		ID:           batchID,
		UserID:       userID,
		Status:       domain.StatusUploaded,
		Priority:     meta.BatchPriority(),
		RawAudioPath: &rawAudio,
		MetadataPath: &metadata,
		UploadedAt:   uploadedAt,
	}

	if startedAt, err := time.Parse(time.RFC3339, meta.RecordingStartedAt); err == nil {
		utc := startedAt.UTC()
		record.RecordingStartedAt = &utc
	}
	if endedAt, err := time.Parse(time.RFC3339, meta.RecordingEndedAt); err == nil {
		utc := endedAt.UTC()
		record.RecordingEndedAt = &utc
	}

	return record
}
