package repository

import (
	"github.com/planhaus/planhaus/app/models"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Preload("Category").Preload("Images").First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetBySlug(slug string) (*models.Plan, error) {
	var plan models.Plan
	err := models.ScopeActive(r.db.Model(&models.Plan{})).
		Preload("Category").Preload("Images").
		Where("slug = ?", slug).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetByReference(reference string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Preload("Category").Preload("Images").
		Where("reference = ?", reference).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetByHistoricalSlug(slug string) (*models.Plan, error) {
	return models.FindPlanByHistoricalSlug(r.db, slug)
}

func (r *planRepository) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

// applyFilter narrows a visible-plans query. Area bounds are inclusive.
func applyFilter(query *gorm.DB, filter PlanFilter) *gorm.DB {
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = plans.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.PlanType != "" {
		query = query.Where("plans.plan_type = ?", filter.PlanType)
	}
	if filter.Bedrooms > 0 {
		query = query.Where("plans.bedrooms = ?", filter.Bedrooms)
	}
	if filter.Floors > 0 {
		query = query.Where("plans.floors = ?", filter.Floors)
	}
	minArea, maxArea := filter.MinAreaSqm, filter.MaxAreaSqm
	if minArea.IsPositive() && maxArea.IsPositive() && minArea.GreaterThan(maxArea) {
		// inverted bounds mean the visitor swapped the fields
		minArea, maxArea = maxArea, minArea
	}
	if minArea.IsPositive() {
		query = query.Where("plans.total_area_sqm >= ?", minArea)
	}
	if maxArea.IsPositive() {
		query = query.Where("plans.total_area_sqm <= ?", maxArea)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(
			"plans.title LIKE ? OR plans.reference LIKE ? OR plans.description LIKE ?",
			like, like, like,
		)
	}
	if filter.FeaturedOnly {
		query = query.Where("plans.featured = ?", true)
	}
	return query
}

func (r *planRepository) visibleQuery(filter PlanFilter) *gorm.DB {
	query := models.ScopeVisible(r.db.Model(&models.Plan{}))
	return applyFilter(query, filter)
}

func (r *planRepository) ListVisible(filter PlanFilter, offset, limit int) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.visibleQuery(filter).
		Preload("Category").Preload("Images").
		Order("plans.published_at DESC, plans.id DESC").
		Offset(offset).Limit(limit).
		Find(&plans).Error
	return plans, err
}

// ListVisibleIDs returns the IDs of every visible plan matching the
// filter in stable insertion order. The catalog shuffles these itself.
func (r *planRepository) ListVisibleIDs(filter PlanFilter) ([]uint, error) {
	var ids []uint
	err := r.visibleQuery(filter).Order("plans.id ASC").Pluck("plans.id", &ids).Error
	return ids, err
}

// ListByIDs fetches plans preserving the order of the given ID slice.
func (r *planRepository) ListByIDs(ids []uint) ([]models.Plan, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var plans []models.Plan
	err := r.db.Preload("Category").Preload("Images").
		Where("id IN ?", ids).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Plan, len(plans))
	for _, plan := range plans {
		byID[plan.ID] = plan
	}
	ordered := make([]models.Plan, 0, len(ids))
	for _, id := range ids {
		if plan, ok := byID[id]; ok {
			ordered = append(ordered, plan)
		}
	}
	return ordered, nil
}

func (r *planRepository) CountVisible(filter PlanFilter) (int64, error) {
	var count int64
	err := r.visibleQuery(filter).Count(&count).Error
	return count, err
}

func (r *planRepository) ListFeatured(limit int) ([]models.Plan, error) {
	var plans []models.Plan
	err := models.ScopeVisible(r.db.Model(&models.Plan{})).
		Where("featured = ?", true).
		Preload("Category").Preload("Images").
		Order("published_at DESC").
		Limit(limit).
		Find(&plans).Error
	return plans, err
}

func (r *planRepository) ListAdmin(includeDeleted bool, offset, limit int) ([]models.Plan, error) {
	query := r.db.Model(&models.Plan{})
	if !includeDeleted {
		query = models.ScopeActive(query)
	}
	var plans []models.Plan
	err := query.Preload("Category").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&plans).Error
	return plans, err
}

func (r *planRepository) CountAdmin(includeDeleted bool) (int64, error) {
	query := r.db.Model(&models.Plan{})
	if !includeDeleted {
		query = models.ScopeActive(query)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *planRepository) Search(query string) ([]models.Plan, error) {
	var plans []models.Plan
	like := "%" + query + "%"
	err := models.ScopeActive(r.db.Model(&models.Plan{})).
		Where("title LIKE ? OR reference LIKE ?", like, like).
		Limit(50).
		Find(&plans).Error
	return plans, err
}

func (r *planRepository) SlugExistsExceptID(slug string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Plan{}).
		Where("slug = ? AND id != ?", slug, id).
		Count(&count).Error
	return count > 0, err
}
