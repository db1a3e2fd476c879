package batch

import (
	"fmt"
	"strings"
)

type ArtifactType string

const (
	ArtifactRawAudio     ArtifactType = "raw-audio"
	ArtifactMetadata     ArtifactType = "metadata"
	ArtifactImages       ArtifactType = "images"
	ArtifactNotes        ArtifactType = "notes"
	ArtifactCleanedAudio ArtifactType = "cleaned-audio"
	ArtifactTranscript   ArtifactType = "transcript"
)

func (t ArtifactType) Valid() bool {
	switch t {
	case ArtifactRawAudio, ArtifactMetadata, ArtifactImages, ArtifactNotes,
		ArtifactCleanedAudio, ArtifactTranscript:
		return true
	}
	return false
}

// ArtifactPath is the structured form of an object-storage key. The string
// encoding userID/batchID/type/filename is the disaster-recovery anchor:
// every batch must be reconstructable from a key listing alone.
type ArtifactPath struct {
	UserID       string
	BatchID      string
	ArtifactType ArtifactType
	Filename     string
}

func (p ArtifactPath) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", p.UserID, p.BatchID, p.ArtifactType, p.Filename)
}

// BuildArtifactPath is the only place key validity is enforced. Segments may
// not be empty, contain separators that would shift them into another slot,
// or smuggle traversal sequences.
func BuildArtifactPath(userID, batchID string, artifactType ArtifactType, filename string) (ArtifactPath, error) {
	if !artifactType.Valid() {
		return ArtifactPath{}, fmt.Errorf("%w: %q", ErrInvalidArtifactType, artifactType)
	}
	for _, segment := range []string{userID, batchID, filename} {
		if err := checkSegment(segment); err != nil {
			return ArtifactPath{}, err
		}
	}

	return ArtifactPath{
		UserID:       userID,
		BatchID:      batchID,
		ArtifactType: artifactType,
		Filename:     filename,
	}, nil
}

// ParseArtifactPath is the inverse of BuildArtifactPath:
// Parse(Build(x).String()) == x for every valid x.
func ParseArtifactPath(raw string) (ArtifactPath, error) {
	if hasTraversal(raw) {
		return ArtifactPath{}, ErrPathTraversal
	}

	parts := strings.SplitN(raw, "/", 4)
	if len(parts) < 4 {
		return ArtifactPath{}, fmt.Errorf("%w: got %d, want 4", ErrInsufficientSegments, len(parts))
	}

	artifactType := ArtifactType(parts[2])
	if !artifactType.Valid() {
		return ArtifactPath{}, fmt.Errorf("%w: %q", ErrInvalidArtifactType, parts[2])
	}

	for _, segment := range []string{parts[0], parts[1], parts[3]} {
		if err := checkSegment(segment); err != nil {
			return ArtifactPath{}, err
		}
	}

	return ArtifactPath{
		UserID:       parts[0],
		BatchID:      parts[1],
		ArtifactType: artifactType,
		Filename:     parts[3],
	}, nil
}

func checkSegment(segment string) error {
	if strings.TrimSpace(segment) == "" {
		return fmt.Errorf("%w: empty segment", ErrInvalidSegment)
	}
	if strings.ContainsAny(segment, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidSegment, segment)
	}
	if hasTraversal(segment) {
		return ErrPathTraversal
	}
	return nil
}

func hasTraversal(raw string) bool {
	if strings.Contains(raw, "\\") {
		return true
	}
	for _, part := range strings.Split(raw, "/") {
		if part == ".." || part == "." {
			return true
		}
	}
	return false
}
