package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

// BatchChildRepository inserts image and note rows with COPY; a batch can
// carry dozens of images and row-at-a-time inserts on the ingest path would
// serialize the hot loop on round trips.
type BatchChildRepository struct {
	pool *pgxpool.Pool
}

func NewBatchChildRepository(pool *pgxpool.Pool) *BatchChildRepository {
	return &BatchChildRepository{pool: pool}
}

func (r *BatchChildRepository) InsertImages(ctx context.Context, images []domain.Image) error {
	if len(images) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(images))
	for _, image := range images {
		rows = append(rows, []any{image.BatchID, image.Path, image.CapturedAt})
	}

	if _, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"batch_images"},
		[]string{"batch_id", "path", "captured_at"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy batch images: %w", err)
	}
	return nil
}

func (r *BatchChildRepository) InsertNotes(ctx context.Context, notes []domain.Note) error {
	if len(notes) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(notes))
	for _, note := range notes {
		rows = append(rows, []any{note.BatchID, note.Text, note.CapturedAt})
	}

	if _, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"batch_notes"},
		[]string{"batch_id", "text", "captured_at"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy batch notes: %w", err)
	}
	return nil
}
