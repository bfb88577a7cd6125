package models

import (
	"time"

	"gorm.io/gorm"
)

// PlanSlugHistory keeps track of historical slugs for permanent redirects.
type PlanSlugHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlanID    uint      `gorm:"index;not null" json:"plan_id"`
	Plan      Plan      `gorm:"foreignKey:PlanID" json:"-"`
	Slug      string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	ChangedAt time.Time `gorm:"autoCreateTime" json:"changed_at"`
}

func (PlanSlugHistory) TableName() string {
	return "plan_slug_history"
}

// FindPlanByHistoricalSlug resolves an old slug to its plan.
func FindPlanByHistoricalSlug(db *gorm.DB, slug string) (*Plan, error) {
	var history PlanSlugHistory
	err := db.Preload("Plan").Where("slug = ?", slug).First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history.Plan, nil
}
