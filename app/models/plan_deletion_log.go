package models

import (
	"time"

	"gorm.io/gorm"
)

// PlanDeletionLog is the immutable record of an irreversible plan deletion.
// It survives the plan row and snapshots the file manifest; post-commit file
// cleanup errors are written back onto the entry.
type PlanDeletionLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PlanReference string    `gorm:"type:varchar(50);index" json:"plan_reference"`
	PlanTitle     string    `gorm:"type:varchar(200)" json:"plan_title"`
	DeletedByID   *uint     `json:"deleted_by_id"`
	Reason        string    `gorm:"type:text" json:"reason"`
	Metadata      JSON      `gorm:"type:json" json:"metadata"`
	FileErrors    JSON      `gorm:"type:json" json:"file_errors"`
	DeletedAt     time.Time `gorm:"autoCreateTime;index" json:"deleted_at"`
}

// GetDeletionLogs returns permanent-deletion records, newest first.
func GetDeletionLogs(db *gorm.DB, limit int) ([]PlanDeletionLog, error) {
	var logs []PlanDeletionLog
	err := db.Order("deleted_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
