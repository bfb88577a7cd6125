package repository

import (
	"github.com/planhaus/planhaus/app/models"
	"gorm.io/gorm"
)

// brandingRepository implements the BrandingRepository interface
type brandingRepository struct {
	db *gorm.DB
}

// NewBrandingRepository creates a new branding repository instance
func NewBrandingRepository(db *gorm.DB) BrandingRepository {
	return &brandingRepository{db: db}
}

func (r *brandingRepository) CreateLogo(logo *models.Logo) error {
	return r.db.Create(logo).Error
}

func (r *brandingRepository) GetLogoByID(id uint) (*models.Logo, error) {
	var logo models.Logo
	err := r.db.First(&logo, id).Error
	if err != nil {
		return nil, err
	}
	return &logo, nil
}

func (r *brandingRepository) GetActiveLogo(logoType string) (*models.Logo, error) {
	return models.GetActiveLogo(r.db, logoType)
}

func (r *brandingRepository) GetLogosByType(logoType string) ([]models.Logo, error) {
	return models.GetLogosByType(r.db, logoType)
}

func (r *brandingRepository) ActivateLogo(logo *models.Logo) error {
	return logo.Activate(r.db)
}

func (r *brandingRepository) DeleteLogo(id uint) error {
	return r.db.Delete(&models.Logo{}, id).Error
}

func (r *brandingRepository) CreateSlide(slide *models.Slide) error {
	return r.db.Create(slide).Error
}

func (r *brandingRepository) GetSlideByID(id uint) (*models.Slide, error) {
	var slide models.Slide
	err := r.db.First(&slide, id).Error
	if err != nil {
		return nil, err
	}
	return &slide, nil
}

func (r *brandingRepository) GetActiveSlides() ([]models.Slide, error) {
	return models.GetActiveSlides(r.db)
}

func (r *brandingRepository) GetAllSlides() ([]models.Slide, error) {
	var slides []models.Slide
	err := r.db.Where("is_deleted = ?", false).
		Order("display_order ASC, id ASC").
		Find(&slides).Error
	return slides, err
}

func (r *brandingRepository) UpdateSlide(slide *models.Slide) error {
	return r.db.Save(slide).Error
}
