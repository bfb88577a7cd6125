package models

import (
	"time"

	"gorm.io/gorm"
)

// Audit actions applied to plans
const (
	AuditActionCreated     = "created"
	AuditActionUpdated     = "updated"
	AuditActionPublished   = "published"
	AuditActionUnpublished = "unpublished"
	AuditActionDrafted     = "drafted"
	AuditActionSoftDeleted = "soft_deleted"
	AuditActionRestored    = "restored"
	AuditActionHardDeleted = "hard_deleted"
)

// PlanAuditLog is an append-only log of administrative actions applied to
// plans. Entries are immutable once written.
type PlanAuditLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PlanID        uint      `gorm:"index;not null" json:"plan_id"`
	PlanReference string    `gorm:"type:varchar(50);index" json:"plan_reference"`
	Action        string    `gorm:"type:varchar(50);not null" json:"action"`
	PerformedByID *uint     `json:"performed_by_id"`
	Notes         string    `gorm:"type:text" json:"notes"`
	Metadata      JSON      `gorm:"type:json" json:"metadata"`
	PerformedAt   time.Time `gorm:"autoCreateTime;index" json:"performed_at"`
}

// LogPlanAction appends one audit entry for the plan.
func LogPlanAction(db *gorm.DB, plan *Plan, action string, actor *User, notes string, metadata JSON) error {
	entry := PlanAuditLog{
		PlanID:        plan.ID,
		PlanReference: plan.Reference,
		Action:        action,
		Notes:         notes,
		Metadata:      metadata,
	}
	if actor != nil {
		entry.PerformedByID = &actor.ID
	}
	return db.Create(&entry).Error
}

// GetPlanAuditTrail returns a plan's audit entries, newest first.
func GetPlanAuditTrail(db *gorm.DB, planID uint) ([]PlanAuditLog, error) {
	var entries []PlanAuditLog
	err := db.Where("plan_id = ?", planID).Order("performed_at DESC").Find(&entries).Error
	return entries, err
}
