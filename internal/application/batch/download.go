package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

// DownloadTTL bounds every signed URL this service hands out.
const DownloadTTL = 15 * time.Minute

type DownloadArtifactInput struct {
	UserID       string
	BatchID      string
	ArtifactType string
}

type DownloadArtifactOutput struct {
	URL       string        `json:"url"`
	ExpiresIn time.Duration `json:"-"`
}

type DownloadArtifact interface {
	Execute(ctx context.Context, in DownloadArtifactInput) (DownloadArtifactOutput, error)
}

type downloadArtifact struct {
	repo    domain.Repository
	storage domain.ObjectStorage
}

func NewDownloadArtifact(repo domain.Repository, storage domain.ObjectStorage) DownloadArtifact {
	return &downloadArtifact{repo: repo, storage: storage}
}

// Execute never proxies object bytes; it only issues a time-limited signed
// URL for the caller to follow.
func (uc *downloadArtifact) Execute(ctx context.Context, in DownloadArtifactInput) (DownloadArtifactOutput, error) {
	artifactType := domain.ArtifactType(in.ArtifactType)
	if !artifactType.Valid() {
		return DownloadArtifactOutput{}, newValidationError(fmt.Sprintf("unrecognized artifact type %q", in.ArtifactType))
	}

	record, err := uc.repo.GetByIDForUser(ctx, in.BatchID, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return DownloadArtifactOutput{}, uc.notFoundOrForbidden(ctx, in.BatchID)
		}
		return DownloadArtifactOutput{}, fmt.Errorf("%w: %v", ErrIndex, err)
	}

	key := artifactKey(record, artifactType)
	if key == nil || *key == "" {
		return DownloadArtifactOutput{}, ErrArtifactNotAvailable
	}

	url, err := uc.storage.PresignGet(ctx, *key, DownloadTTL)
	if err != nil {
		return DownloadArtifactOutput{}, fmt.Errorf("%w: presign %s: %v", ErrStorage, *key, err)
	}

	return DownloadArtifactOutput{URL: url, ExpiresIn: DownloadTTL}, nil
}

func (uc *downloadArtifact) notFoundOrForbidden(ctx context.Context, batchID string) error {
	exists, err := uc.repo.ExistsByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	if exists {
		return ErrBatchForbidden
	}
	return ErrBatchNotFound
}

// artifactKey resolves the single downloadable object for a type. Images
// and notes are child collections with per-row paths surfaced by the status
// endpoint, so they have no batch-level object here.
func artifactKey(record *domain.Batch, artifactType domain.ArtifactType) *string {
	switch artifactType {
	case domain.ArtifactRawAudio:
		return record.RawAudioPath
	case domain.ArtifactMetadata:
		return record.MetadataPath
	case domain.ArtifactCleanedAudio:
		return record.CleanedAudioPath
	case domain.ArtifactTranscript:
		return record.TranscriptPath
	default:
		return nil
	}
}
