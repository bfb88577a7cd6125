package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/planhaus/planhaus/app/controllers"
	"github.com/planhaus/planhaus/app/repository"
	"github.com/planhaus/planhaus/internal/pkg/database"
	"github.com/planhaus/planhaus/internal/pkg/env"
	"github.com/planhaus/planhaus/internal/pkg/mail"
	"github.com/planhaus/planhaus/internal/pkg/middleware"
	"github.com/planhaus/planhaus/internal/pkg/notify"
	"github.com/planhaus/planhaus/internal/pkg/session"
	"github.com/planhaus/planhaus/internal/pkg/storage"
	"github.com/planhaus/planhaus/internal/pkg/watermark"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	repos := repository.GetGlobalRepositories()

	// Managed redirects run before everything else so legacy URLs
	// never reach the catalog handlers.
	app.Use(middleware.RedirectTable(repos.Redirect))

	// Apply UserContext middleware globally, then the visit tracker
	// which records after the handler has run.
	app.Use(middleware.UserContextMiddleware)
	app.Use(middleware.VisitTracker(repos.Visit))

	// Wire controllers to repositories, file storage, watermarking,
	// and outbound mail.
	controllers.InitializeControllers()

	store := storage.NewFromEnv()
	stampText := env.GetEnv("WATERMARK_TEXT", env.GetEnv("BRAND_NAME", "PlanHaus"))
	controllers.InitializeFileServices(store, watermark.NewService(store, watermark.NewImageStamper(), stampText))

	controllers.InitializeNotifyService(notify.NewService(database.GetDB(), mail.NewSMTPMailer()))

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
