package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Batch ids look like 20260222-143027-GMT-<uuid4>. The prefix is the
// recording start instant normalized to UTC, so a bucket listing alone is
// enough to rebuild the index in recording order; uniqueness is carried
// entirely by the uuid suffix.
const idTimeLayout = "20060102-150405"

const idPrefixLen = len("20060102-150405-GMT-")

// NewBatchID derives a fresh batch id from the recording start instant.
// Two calls with the same instant share a prefix but never a full id.
func NewBatchID(recordingStartedAt string) (string, error) {
	if strings.TrimSpace(recordingStartedAt) == "" {
		return "", ErrInvalidRecordingStart
	}

	instant, err := time.Parse(time.RFC3339, recordingStartedAt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecordingStart, err)
	}

	return fmt.Sprintf("%s-GMT-%s", instant.UTC().Format(idTimeLayout), uuid.New().String()), nil
}

// ParseBatchID recovers the recording start instant and the random suffix.
// It is the exact inverse of NewBatchID for the instant component.
func ParseBatchID(id string) (time.Time, string, error) {
	if len(id) <= idPrefixLen {
		return time.Time{}, "", ErrMalformedBatchID
	}

	prefix, suffix := id[:idPrefixLen], id[idPrefixLen:]
	if !strings.HasSuffix(prefix, "-GMT-") {
		return time.Time{}, "", ErrMalformedBatchID
	}

	instant, err := time.ParseInLocation(idTimeLayout, strings.TrimSuffix(prefix, "-GMT-"), time.UTC)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrMalformedBatchID, err)
	}

	parsed, err := uuid.Parse(suffix)
	if err != nil || parsed.String() != suffix {
		return time.Time{}, "", ErrMalformedBatchID
	}

	return instant, suffix, nil
}
