package models

import "time"

// Batch is the index row for an upload session. The object store is the
// authority; this table is a rebuildable projection of its key listing, so
// nothing here may be the only copy of anything.
type Batch struct {
	ID       string `gorm:"type:text;primaryKey"`
	UserID   string `gorm:"type:text;not null;index:idx_batches_user_uploaded,priority:1"`
	Status   string `gorm:"type:text;not null;index"`
	Priority string `gorm:"type:text;not null;default:normal"`

	RawAudioPath      *string `gorm:"type:text"`
	MetadataPath      *string `gorm:"type:text"`
	CleanedAudioPath  *string `gorm:"type:text"`
	TranscriptPath    *string `gorm:"type:text"`
	RawTranscriptPath *string `gorm:"type:text"`
	EmotionPath       *string `gorm:"type:text"`

	UploadedAt            time.Time `gorm:"not null;index:idx_batches_user_uploaded,priority:2"`
	RecordingStartedAt    *time.Time
	RecordingEndedAt      *time.Time
	ProcessingStartedAt   *time.Time
	ProcessingCompletedAt *time.Time
	QueueWaitSeconds      *float64
	ProcessingSeconds     *float64

	RawDurationSeconds    *float64
	SpeechDurationSeconds *float64
	SpeechRatio           *float64
	BytesBeforeDenoise    *int64
	BytesAfterDenoise     *int64
	ExternalJobID         *string `gorm:"type:text"`
	CostEstimateUSD       *float64
	EmotionProvider       *string `gorm:"type:text"`
	EmotionModelVersion   *string `gorm:"type:text"`

	RetryCount   int     `gorm:"not null;default:0"`
	ErrorMessage *string `gorm:"type:text"`
	ErrorStage   *string `gorm:"type:text"`

	Images []BatchImage `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	Notes  []BatchNote  `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Batch) TableName() string {
	return "batches"
}

type BatchImage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	BatchID    string    `gorm:"type:text;not null;index"`
	Path       string    `gorm:"type:text;not null"`
	CapturedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

func (BatchImage) TableName() string {
	return "batch_images"
}

type BatchNote struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	BatchID    string    `gorm:"type:text;not null;index"`
	Text       string    `gorm:"type:text;not null"`
	CapturedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

func (BatchNote) TableName() string {
	return "batch_notes"
}
