package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/planhaus/planhaus/app/controllers"
	"github.com/planhaus/planhaus/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/", controllers.HandleHome)

	// Catalog
	app.Get("/plans", controllers.HandlePlanIndex)
	app.Get("/plans/:slug", controllers.HandlePlanShow)
	app.Get("/plans/:slug/preview", controllers.HandleFreePreviewDownload)

	// Checkout + order tracking
	app.Get("/plans/:slug/checkout", controllers.HandleCheckoutGet)
	app.Post("/plans/:slug/checkout", controllers.HandleCheckoutPost)
	app.Get("/orders/:number", controllers.HandleOrderStatus)
	app.Get("/my-orders", controllers.HandleMyOrders)
	app.Get("/download/:token", controllers.HandleOrderDownload)

	// Editorial pages
	app.Get("/page/:slug", controllers.HandlePageDisplay)

	// SEO endpoints
	app.Get("/sitemap.xml", controllers.HandleSitemap)
	app.Get("/robots.txt", controllers.HandleRobots)

	// Auth
	app.Get("/login", controllers.HandleLoginGet)
	app.Post("/login", controllers.HandleLoginPost)
	app.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)
}
