package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Logo placements
const (
	LogoTypeHeader  = "header"
	LogoTypeFooter  = "footer"
	LogoTypeFavicon = "favicon"
)

// Logo is a site logo upload. At most one logo per type is active at a
// time; activating one deactivates the others inside a row-locked
// transaction.
type Logo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LogoType  string    `gorm:"type:varchar(20);index" json:"logo_type"`
	FilePath  string    `gorm:"type:varchar(500)" json:"file_path"`
	AltText   string    `gorm:"type:varchar(200)" json:"alt_text"`
	IsActive  bool      `gorm:"default:false;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Activate makes this logo the single active one of its type.
func (l *Logo) Activate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var others []Logo
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("logo_type = ? AND is_active = ? AND id != ?", l.LogoType, true, l.ID).
			Find(&others).Error; err != nil {
			return err
		}
		for i := range others {
			if err := tx.Model(&others[i]).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		l.IsActive = true
		return tx.Model(l).Update("is_active", true).Error
	})
}

// Deactivate turns the logo off without promoting another one.
func (l *Logo) Deactivate(db *gorm.DB) error {
	l.IsActive = false
	return db.Model(l).Update("is_active", false).Error
}

// GetActiveLogo returns the active logo for a placement, or nil when
// none is configured.
func GetActiveLogo(db *gorm.DB, logoType string) (*Logo, error) {
	var logo Logo
	result := db.Where("logo_type = ? AND is_active = ?", logoType, true).
		Order("updated_at DESC").
		First(&logo)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &logo, nil
}

// GetLogosByType lists all uploads for a placement, newest first.
func GetLogosByType(db *gorm.DB, logoType string) ([]Logo, error) {
	var logos []Logo
	err := db.Where("logo_type = ?", logoType).Order("created_at DESC").Find(&logos).Error
	return logos, err
}

// Slide is a homepage hero slide.
type Slide struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(200)" json:"title"`
	Subtitle     string     `gorm:"type:varchar(300)" json:"subtitle"`
	ImagePath    string     `gorm:"type:varchar(500)" json:"image_path"`
	LinkURL      string     `gorm:"type:varchar(500)" json:"link_url"`
	ButtonLabel  string     `gorm:"type:varchar(100)" json:"button_label"`
	DisplayOrder int        `gorm:"default:0;index" json:"display_order"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	IsDeleted    bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// SoftDelete hides the slide without removing the row or its image.
func (s *Slide) SoftDelete(db *gorm.DB) error {
	if s.IsDeleted {
		return nil
	}
	now := time.Now()
	s.IsDeleted = true
	s.IsActive = false
	s.DeletedAt = &now
	return db.Model(s).Select("is_deleted", "is_active", "deleted_at").Updates(s).Error
}

// Restore brings a soft-deleted slide back in an inactive state.
func (s *Slide) Restore(db *gorm.DB) error {
	if !s.IsDeleted {
		return nil
	}
	s.IsDeleted = false
	s.DeletedAt = nil
	return db.Model(s).Select("is_deleted", "deleted_at").Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
	}).Error
}

// GetActiveSlides returns the visible slides in display order.
func GetActiveSlides(db *gorm.DB) ([]Slide, error) {
	var slides []Slide
	err := db.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("display_order ASC, id ASC").
		Find(&slides).Error
	return slides, err
}
