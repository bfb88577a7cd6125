package repository

import (
	"github.com/planhaus/planhaus/app/models"
	"gorm.io/gorm"
)

// redirectRepository implements the RedirectRepository interface
type redirectRepository struct {
	db *gorm.DB
}

// NewRedirectRepository creates a new redirect repository instance
func NewRedirectRepository(db *gorm.DB) RedirectRepository {
	return &redirectRepository{db: db}
}

func (r *redirectRepository) Create(redirect *models.Redirect) error {
	return r.db.Create(redirect).Error
}

func (r *redirectRepository) GetByID(id uint) (*models.Redirect, error) {
	var redirect models.Redirect
	err := r.db.First(&redirect, id).Error
	if err != nil {
		return nil, err
	}
	return &redirect, nil
}

func (r *redirectRepository) FindByPath(path string) (*models.Redirect, error) {
	return models.FindRedirectByPath(r.db, path)
}

func (r *redirectRepository) GetAll() ([]models.Redirect, error) {
	return models.GetAllRedirects(r.db)
}

func (r *redirectRepository) Update(redirect *models.Redirect) error {
	return r.db.Save(redirect).Error
}

func (r *redirectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Redirect{}, id).Error
}

func (r *redirectRepository) RecordHit(redirect *models.Redirect) error {
	return redirect.RecordHit(r.db)
}
