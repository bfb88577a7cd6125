package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/planhaus/planhaus/app/controllers"
	"github.com/planhaus/planhaus/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", controllers.HandleAdminDashboard)

	// Plan management
	adminGroup.Get("/plans", controllers.HandleAdminPlanList)
	adminGroup.Get("/plans/new", controllers.HandleAdminPlanNew)
	adminGroup.Post("/plans", controllers.HandleAdminPlanCreate)
	adminGroup.Get("/plans/:id/edit", controllers.HandleAdminPlanEdit)
	adminGroup.Post("/plans/:id", controllers.HandleAdminPlanUpdate)
	adminGroup.Post("/plans/:id/publish", controllers.HandleAdminPlanPublish)
	adminGroup.Post("/plans/:id/unpublish", controllers.HandleAdminPlanUnpublish)
	adminGroup.Post("/plans/:id/draft", controllers.HandleAdminPlanDraft)
	adminGroup.Post("/plans/:id/delete", controllers.HandleAdminPlanSoftDelete)
	adminGroup.Post("/plans/:id/restore", controllers.HandleAdminPlanRestore)
	adminGroup.Get("/plans/:id/hard-delete", controllers.HandleAdminPlanHardDeleteConfirm)
	adminGroup.Post("/plans/:id/hard-delete", controllers.HandleAdminPlanHardDelete)
	adminGroup.Post("/plans/:id/images", controllers.HandleAdminPlanImageUpload)
	adminGroup.Post("/plans/:id/images/:imageID/delete", controllers.HandleAdminPlanImageDelete)

	// Order verification
	adminGroup.Get("/orders", controllers.HandleAdminOrderList)
	adminGroup.Get("/orders/:id", controllers.HandleAdminOrderShow)
	adminGroup.Get("/orders/:id/receipt", controllers.HandleAdminOrderReceipt)
	adminGroup.Post("/orders/:id/approve", controllers.HandleAdminOrderApprove)
	adminGroup.Post("/orders/:id/reject", controllers.HandleAdminOrderReject)

	// Categories
	adminGroup.Get("/categories", controllers.HandleAdminCategoryList)
	adminGroup.Post("/categories", controllers.HandleAdminCategoryCreate)
	adminGroup.Post("/categories/:id", controllers.HandleAdminCategoryUpdate)
	adminGroup.Post("/categories/:id/delete", controllers.HandleAdminCategoryDelete)

	// Editorial pages
	adminGroup.Get("/pages", controllers.HandleAdminPageList)
	adminGroup.Get("/pages/new", controllers.HandleAdminPageNew)
	adminGroup.Post("/pages", controllers.HandleAdminPageCreate)
	adminGroup.Get("/pages/:id/edit", controllers.HandleAdminPageEdit)
	adminGroup.Post("/pages/:id", controllers.HandleAdminPageUpdate)
	adminGroup.Post("/pages/:id/delete", controllers.HandleAdminPageDelete)

	// Branding (logos + hero slides)
	adminGroup.Get("/branding", controllers.HandleAdminBranding)
	adminGroup.Post("/branding/logos", controllers.HandleAdminLogoUpload)
	adminGroup.Post("/branding/logos/:id/activate", controllers.HandleAdminLogoActivate)
	adminGroup.Post("/branding/logos/:id/delete", controllers.HandleAdminLogoDelete)
	adminGroup.Post("/branding/slides", controllers.HandleAdminSlideCreate)
	adminGroup.Post("/branding/slides/:id", controllers.HandleAdminSlideUpdate)
	adminGroup.Post("/branding/slides/:id/delete", controllers.HandleAdminSlideDelete)
	adminGroup.Post("/branding/slides/:id/restore", controllers.HandleAdminSlideRestore)

	// Redirect table
	adminGroup.Get("/redirects", controllers.HandleAdminRedirectList)
	adminGroup.Post("/redirects", controllers.HandleAdminRedirectCreate)
	adminGroup.Post("/redirects/:id/toggle", controllers.HandleAdminRedirectToggle)
	adminGroup.Post("/redirects/:id/delete", controllers.HandleAdminRedirectDelete)

	// Outbound mail log
	adminGroup.Get("/email-log", controllers.HandleAdminEmailLog)
}
