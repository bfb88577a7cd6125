package repository

import (
	"time"

	"github.com/planhaus/planhaus/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlanFilter narrows catalog listings. Zero values mean "no constraint".
type PlanFilter struct {
	CategorySlug string
	PlanType     string
	Bedrooms     int
	Floors       int
	MinAreaSqm   decimal.Decimal
	MaxAreaSqm   decimal.Decimal
	Query        string
	FeaturedOnly bool
}

// IsEmpty reports whether the filter constrains anything. The featured
// rail on the first catalog page only appears for unfiltered listings.
func (f PlanFilter) IsEmpty() bool {
	return f.CategorySlug == "" && f.PlanType == "" && f.Bedrooms == 0 &&
		f.Floors == 0 && f.MinAreaSqm.IsZero() && f.MaxAreaSqm.IsZero() &&
		f.Query == "" && !f.FeaturedOnly
}

// PlanRepository defines the interface for plan-related database operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetBySlug(slug string) (*models.Plan, error)
	GetByReference(reference string) (*models.Plan, error)
	GetByHistoricalSlug(slug string) (*models.Plan, error)
	Update(plan *models.Plan) error
	ListVisible(filter PlanFilter, offset, limit int) ([]models.Plan, error)
	ListVisibleIDs(filter PlanFilter) ([]uint, error)
	ListByIDs(ids []uint) ([]models.Plan, error)
	CountVisible(filter PlanFilter) (int64, error)
	ListFeatured(limit int) ([]models.Plan, error)
	ListAdmin(includeDeleted bool, offset, limit int) ([]models.Plan, error)
	CountAdmin(includeDeleted bool) (int64, error)
	Search(query string) ([]models.Plan, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// OrderRepository defines the interface for order-related database operations
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByNumber(orderNumber string) (*models.Order, error)
	GetByAccessToken(token string) (*models.Order, error)
	GetByBuyerEmail(email string) ([]models.Order, error)
	Update(order *models.Order) error
	ListByStatus(status string, offset, limit int) ([]models.Order, error)
	CountByStatus(status string) (int64, error)
	List(offset, limit int) ([]models.Order, error)
	Count() (int64, error)
	RevenueSince(since time.Time) (decimal.Decimal, error)
}

// CategoryRepository defines the interface for category operations
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetActive() ([]models.Category, error)
	GetAll() ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id uint) error
	CountPlans(categoryID uint) (int64, error)
}

// PageRepository defines the interface for editorial page operations
type PageRepository interface {
	Create(page *models.Page) error
	GetByID(id uint) (*models.Page, error)
	GetBySlug(slug string) (*models.Page, error)
	GetAll() ([]models.Page, error)
	GetFooter() ([]models.Page, error)
	Update(page *models.Page) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// BrandingRepository defines the interface for logos and hero slides
type BrandingRepository interface {
	CreateLogo(logo *models.Logo) error
	GetLogoByID(id uint) (*models.Logo, error)
	GetActiveLogo(logoType string) (*models.Logo, error)
	GetLogosByType(logoType string) ([]models.Logo, error)
	ActivateLogo(logo *models.Logo) error
	DeleteLogo(id uint) error

	CreateSlide(slide *models.Slide) error
	GetSlideByID(id uint) (*models.Slide, error)
	GetActiveSlides() ([]models.Slide, error)
	GetAllSlides() ([]models.Slide, error)
	UpdateSlide(slide *models.Slide) error
}

// VisitRepository defines the interface for visit analytics
type VisitRepository interface {
	Record(visit *models.Visit) error
	CountSince(since time.Time) (int64, error)
	TopPaths(since time.Time, limit int) ([]models.PathCount, error)
	CountByDevice(since time.Time) (map[string]int64, error)
	CountByCountry(since time.Time, limit int) ([]CountryCount, error)
}

// RedirectRepository defines the interface for managed URL redirects
type RedirectRepository interface {
	Create(redirect *models.Redirect) error
	GetByID(id uint) (*models.Redirect, error)
	FindByPath(path string) (*models.Redirect, error)
	GetAll() ([]models.Redirect, error)
	Update(redirect *models.Redirect) error
	Delete(id uint) error
	RecordHit(redirect *models.Redirect) error
}

// UserRepository defines the interface for admin-account operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// EmailLogRepository defines the interface for the outbound mail log
type EmailLogRepository interface {
	Create(entry *models.EmailLog) error
	List(offset, limit int) ([]models.EmailLog, error)
	ListByStatus(status string, offset, limit int) ([]models.EmailLog, error)
	Count() (int64, error)
}

// CountryCount is an aggregated visit row grouped by country.
type CountryCount struct {
	CountryCode string `json:"country_code"`
	Count       int64  `json:"count"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	Plan     PlanRepository
	Order    OrderRepository
	Category CategoryRepository
	Page     PageRepository
	Branding BrandingRepository
	Visit    VisitRepository
	Redirect RedirectRepository
	User     UserRepository
	EmailLog EmailLogRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Plan:     NewPlanRepository(db),
		Order:    NewOrderRepository(db),
		Category: NewCategoryRepository(db),
		Page:     NewPageRepository(db),
		Branding: NewBrandingRepository(db),
		Visit:    NewVisitRepository(db),
		Redirect: NewRedirectRepository(db),
		User:     NewUserRepository(db),
		EmailLog: NewEmailLogRepository(db),
	}
}
