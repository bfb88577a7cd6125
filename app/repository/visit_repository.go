package repository

import (
	"time"

	"github.com/planhaus/planhaus/app/models"
	"gorm.io/gorm"
)

// visitRepository implements the VisitRepository interface
type visitRepository struct {
	db *gorm.DB
}

// NewVisitRepository creates a new visit repository instance
func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Record(visit *models.Visit) error {
	return r.db.Create(visit).Error
}

func (r *visitRepository) CountSince(since time.Time) (int64, error) {
	return models.CountVisitsSince(r.db, since)
}

func (r *visitRepository) TopPaths(since time.Time, limit int) ([]models.PathCount, error) {
	return models.TopVisitedPaths(r.db, since, limit)
}

func (r *visitRepository) CountByDevice(since time.Time) (map[string]int64, error) {
	var rows []struct {
		Device string
		Count  int64
	}
	err := r.db.Model(&models.Visit{}).
		Select("device, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("device").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Device] = row.Count
	}
	return counts, nil
}

func (r *visitRepository) CountByCountry(since time.Time, limit int) ([]CountryCount, error) {
	var rows []CountryCount
	err := r.db.Model(&models.Visit{}).
		Select("country_code, COUNT(*) as count").
		Where("created_at >= ? AND country_code != ''", since).
		Group("country_code").
		Order("count DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
