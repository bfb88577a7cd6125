package models

import (
	"time"

	"gorm.io/gorm"
)

// Image type values
const (
	ImageTypeFloorPlan = "floor_plan"
	ImageTypeElevation = "elevation"
	ImageTypeSection   = "section"
	ImageType3DRender  = "3d_render"
	ImageTypePhoto     = "photo"
	ImageTypeOther     = "other"
)

// PlanImage is a gallery image attached to a plan (floor plan, elevation,
// 3D render, photo).
type PlanImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PlanID       uint      `gorm:"index;not null" json:"plan_id"`
	FilePath     string    `gorm:"type:varchar(255);not null" json:"file_path"`
	ImageType    string    `gorm:"type:varchar(20);default:'floor_plan'" json:"image_type"`
	Caption      string    `gorm:"type:varchar(200)" json:"caption"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	IsPrimary    bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeSave keeps at most one primary image per plan.
func (i *PlanImage) BeforeSave(tx *gorm.DB) error {
	if !i.IsPrimary {
		return nil
	}
	return tx.Session(&gorm.Session{NewDB: true}).Model(&PlanImage{}).
		Where("plan_id = ? AND is_primary = ? AND id <> ?", i.PlanID, true, i.ID).
		Update("is_primary", false).Error
}

// GetPlanImages returns a plan's images in display order, primary first on ties.
func GetPlanImages(db *gorm.DB, planID uint) ([]PlanImage, error) {
	var images []PlanImage
	err := db.Where("plan_id = ?", planID).
		Order("display_order ASC, is_primary DESC, created_at DESC").
		Find(&images).Error
	return images, err
}
