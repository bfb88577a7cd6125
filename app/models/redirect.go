package models

import (
	"time"

	"gorm.io/gorm"
)

// Redirect maps a retired URL path to its replacement. Admins manage
// these for moved content; plan slug changes are handled separately via
// the slug history table.
type Redirect struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OldPath    string    `gorm:"type:varchar(500);uniqueIndex;not null" json:"old_path"`
	NewPath    string    `gorm:"type:varchar(500);not null" json:"new_path"`
	StatusCode int       `gorm:"default:301" json:"status_code"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	HitCount   uint64    `gorm:"default:0" json:"hit_count"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FindRedirectByPath looks up an active redirect for the request path.
func FindRedirectByPath(db *gorm.DB, path string) (*Redirect, error) {
	var r Redirect
	err := db.Where("old_path = ? AND is_active = ?", path, true).First(&r).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// RecordHit bumps the usage counter without racing other requests.
func (r *Redirect) RecordHit(db *gorm.DB) error {
	return db.Model(r).UpdateColumn("hit_count", gorm.Expr("hit_count + ?", 1)).Error
}

func GetAllRedirects(db *gorm.DB) ([]Redirect, error) {
	var rs []Redirect
	err := db.Order("created_at DESC").Find(&rs).Error
	return rs, err
}
