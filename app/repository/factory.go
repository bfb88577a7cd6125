package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

func (f *Factory) GetPlanRepository() PlanRepository {
	return f.GetRepositories().Plan
}

func (f *Factory) GetOrderRepository() OrderRepository {
	return f.GetRepositories().Order
}

func (f *Factory) GetCategoryRepository() CategoryRepository {
	return f.GetRepositories().Category
}

func (f *Factory) GetPageRepository() PageRepository {
	return f.GetRepositories().Page
}

func (f *Factory) GetBrandingRepository() BrandingRepository {
	return f.GetRepositories().Branding
}

func (f *Factory) GetVisitRepository() VisitRepository {
	return f.GetRepositories().Visit
}

func (f *Factory) GetRedirectRepository() RedirectRepository {
	return f.GetRepositories().Redirect
}

func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

func (f *Factory) GetEmailLogRepository() EmailLogRepository {
	return f.GetRepositories().EmailLog
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
