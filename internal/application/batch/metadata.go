package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	domain "github.com/alirezamp/audio-batch-service/internal/domain/batch"
)

var metadataValidator = validator.New(validator.WithRequiredStructEnabled())

// UploadMetadata is the client-supplied JSON part of an upload. The schema
// is fixed: unknown recording formats, missing device fields, or malformed
// timestamps reject the whole batch before anything is written.
type UploadMetadata struct {
	RecordingStartedAt string `json:"recording_started_at" validate:"required"`
	RecordingEndedAt   string `json:"recording_ended_at" validate:"required"`
	AudioFormat        string `json:"audio_format" validate:"required,oneof=wav m4a mp3 flac ogg opus"`
	SampleRateHz       int    `json:"sample_rate_hz" validate:"omitempty,gt=0"`

	DeviceModel string `json:"device_model" validate:"required"`
	DeviceOS    string `json:"device_os" validate:"required"`
	AppVersion  string `json:"app_version" validate:"omitempty,max=64"`

	Priority string `json:"priority" validate:"omitempty,oneof=immediate normal"`

	Location       *MetadataLocation       `json:"location,omitempty"`
	CalendarEvents []MetadataCalendarEvent `json:"calendar_events,omitempty" validate:"dive"`
	Images         []MetadataImage         `json:"images,omitempty" validate:"dive"`
	Notes          []MetadataNote          `json:"notes,omitempty" validate:"dive"`
}

type MetadataLocation struct {
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Accuracy  *float64 `json:"accuracy_m,omitempty"`
}

type MetadataCalendarEvent struct {
	Title    string    `json:"title" validate:"required"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
}

type MetadataImage struct {
	Filename   string    `json:"filename" validate:"required"`
	CapturedAt time.Time `json:"captured_at" validate:"required"`
}

type MetadataNote struct {
	Text       string    `json:"text" validate:"required"`
	CapturedAt time.Time `json:"captured_at" validate:"required"`
}

// BatchPriority maps the optional client flag, defaulting to normal.
func (m UploadMetadata) BatchPriority() domain.Priority {
	if m.Priority == string(domain.PriorityImmediate) {
		return domain.PriorityImmediate
	}
	return domain.PriorityNormal
}

// ParseUploadMetadata decodes and schema-validates the metadata part.
func ParseUploadMetadata(raw []byte) (UploadMetadata, error) {
	var meta UploadMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return UploadMetadata{}, newValidationError("metadata is not valid JSON")
	}

	if err := metadataValidator.Struct(meta); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			details := make([]string, 0, len(invalid))
			for _, fieldErr := range invalid {
				details = append(details, fmt.Sprintf("metadata field %s failed on %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return UploadMetadata{}, newValidationError(details...)
		}
		return UploadMetadata{}, newValidationError(err.Error())
	}

	if _, err := time.Parse(time.RFC3339, meta.RecordingStartedAt); err != nil {
		return UploadMetadata{}, newValidationError("recording_started_at must be RFC 3339")
	}
	if _, err := time.Parse(time.RFC3339, meta.RecordingEndedAt); err != nil {
		return UploadMetadata{}, newValidationError("recording_ended_at must be RFC 3339")
	}

	return meta, nil
}
