package models

import "time"

const (
	ActionMoved   = "moved"
	ActionCopied  = "copied"
	ActionDeleted = "deleted"

	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// FileLog is an append-only audit record of one organization attempt.
type FileLog struct {
	ID              uint      `gorm:"primaryKey"`
	BatchID         string    `gorm:"size:64;index"`
	Filename        string    `gorm:"size:255;not null"`
	OriginalPath    string    `gorm:"size:1024;not null"`
	DestinationPath *string   `gorm:"size:1024"`
	RuleID          *uint     `gorm:"index"`
	NodeID          *uint     `gorm:"index"`
	Action          string    `gorm:"size:32;not null"`
	Status          string    `gorm:"size:32;index;not null"`
	ErrorMessage    string    `gorm:"type:text"`
	Timestamp       time.Time `gorm:"index"`
}

func (FileLog) TableName() string { return "file_logs" }
