package repository

import (
	"github.com/planhaus/planhaus/app/models"
	"gorm.io/gorm"
)

// emailLogRepository implements the EmailLogRepository interface
type emailLogRepository struct {
	db *gorm.DB
}

// NewEmailLogRepository creates a new email log repository instance
func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(entry *models.EmailLog) error {
	return r.db.Create(entry).Error
}

func (r *emailLogRepository) List(offset, limit int) ([]models.EmailLog, error) {
	var entries []models.EmailLog
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *emailLogRepository) ListByStatus(status string, offset, limit int) ([]models.EmailLog, error) {
	var entries []models.EmailLog
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *emailLogRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.EmailLog{}).Count(&count).Error
	return count, err
}
