package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/planhaus/planhaus/app/repository"
	"github.com/planhaus/planhaus/internal/pkg/database"
	"github.com/planhaus/planhaus/internal/pkg/env"
)

var (
	repos *repository.Repositories
	db    *gorm.DB
)

// InitializeControllers wires the repositories and database handle into
// the controller package. Must run after the repository factory is
// initialized.
func InitializeControllers() {
	repos = repository.GetGlobalRepositories()
	db = database.GetDB()
}

func publicDomain() string {
	return env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
}

// HandleHome renders the landing page with hero slides, the featured
// plans, and the category overview.
func HandleHome(c *fiber.Ctx) error {
	slides, err := repos.Branding.GetActiveSlides()
	if err != nil {
		log.Errorf("[Home] failed to load slides: %v", err)
	}
	featured, err := repos.Plan.ListFeatured(FeaturedRailSize)
	if err != nil {
		log.Errorf("[Home] failed to load featured plans: %v", err)
	}
	categories, err := repos.Category.GetActive()
	if err != nil {
		log.Errorf("[Home] failed to load categories: %v", err)
	}
	footerPages, err := repos.Page.GetFooter()
	if err != nil {
		log.Errorf("[Home] failed to load footer pages: %v", err)
	}

	return c.Render("home", viewData(c, "Architectural House Plans", fiber.Map{
		"Slides":      slides,
		"Featured":    featured,
		"Categories":  categories,
		"FooterPages": footerPages,
	}), "layouts/main")
}
