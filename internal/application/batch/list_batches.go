package batch

import (
	"context"
	"fmt"
	"time"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	listDateLayout   = "2006-01-02"
)

type ListBatchesInput struct {
	UserID    string
	Status    string
	StartDate string
	EndDate   string
	Limit     *int
	Offset    int
}

type BatchSummaryOutput struct {
	BatchID            string     `json:"batch_id"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	UploadedAt         time.Time  `json:"uploaded_at"`
	RecordingStartedAt *time.Time `json:"recording_started_at,omitempty"`
	ErrorMessage       *string    `json:"error_message,omitempty"`
}

type ListBatchesOutput struct {
	Batches []BatchSummaryOutput `json:"batches"`
	Total   int64                `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

type ListBatches interface {
	Execute(ctx context.Context, in ListBatchesInput) (ListBatchesOutput, error)
}

type listBatches struct {
	repo domain.Repository
}

func NewListBatches(repo domain.Repository) ListBatches {
	return &listBatches{repo: repo}
}

// Execute validates every query parameter before touching the index.
func (uc *listBatches) Execute(ctx context.Context, in ListBatchesInput) (ListBatchesOutput, error) {
	limit := defaultListLimit
	if in.Limit != nil {
		limit = *in.Limit
		if limit < 1 || limit > maxListLimit {
			return ListBatchesOutput{}, newValidationError(fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
		}
	}
	if in.Offset < 0 {
		return ListBatchesOutput{}, newValidationError("offset must not be negative")
	}

	filter := domain.ListFilter{}
	if in.Status != "" {
		status := domain.Status(in.Status)
		if !status.Valid() {
			return ListBatchesOutput{}, newValidationError(fmt.Sprintf("unrecognized status %q", in.Status))
		}
		filter.Status = status
	}

	if in.StartDate != "" {
		startDate, err := time.ParseInLocation(listDateLayout, in.StartDate, time.UTC)
		if err != nil {
			return ListBatchesOutput{}, newValidationError("start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &startDate
	}
	if in.EndDate != "" {
		endDate, err := time.ParseInLocation(listDateLayout, in.EndDate, time.UTC)
		if err != nil {
			return ListBatchesOutput{}, newValidationError("end_date must be YYYY-MM-DD")
		}
		// Inclusive end of day.
		endOfDay := endDate.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &endOfDay
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return ListBatchesOutput{}, newValidationError("end_date is before start_date")
	}

	records, total, err := uc.repo.List(ctx, in.UserID, filter, limit, in.Offset)
	if err != nil {
		return ListBatchesOutput{}, fmt.Errorf("%w: %v", ErrIndex, err)
	}

	out := ListBatchesOutput{
		Batches: make([]BatchSummaryOutput, 0, len(records)),
		Total:   total,
		Limit:   limit,
		Offset:  in.Offset,
	}
	for _, record := range records {
		summary := BatchSummaryOutput{
			BatchID:            record.ID,
			Status:             string(record.Status),
			Priority:           string(record.Priority),
			UploadedAt:         record.UploadedAt,
			RecordingStartedAt: record.RecordingStartedAt,
		}
		if record.Status == domain.StatusFailed {
			summary.ErrorMessage = record.ErrorMessage
		}
		out.Batches = append(out.Batches, summary)
	}

	return out, nil
}
