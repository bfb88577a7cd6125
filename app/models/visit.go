package models

import (
	"time"

	"gorm.io/gorm"
)

// Device classes derived from the user agent
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// Visit is one recorded page view. Rows hold nothing that identifies a
// visitor; the throttle fingerprint lives only in Redis and is never
// persisted.
type Visit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Path        string    `gorm:"type:varchar(500);index" json:"path"`
	Device      string    `gorm:"type:varchar(20);index" json:"device"`
	CountryCode string    `gorm:"type:varchar(8);index" json:"country_code"`
	PlanID      *uint     `gorm:"index" json:"plan_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// CountVisitsSince returns the number of visits recorded after the cutoff.
func CountVisitsSince(db *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&Visit{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// TopVisitedPaths returns the most visited paths since the cutoff.
func TopVisitedPaths(db *gorm.DB, since time.Time, limit int) ([]PathCount, error) {
	var rows []PathCount
	err := db.Model(&Visit{}).
		Select("path, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("path").
		Order("count DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// PathCount is an aggregated visit row for the admin dashboard.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}
