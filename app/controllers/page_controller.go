package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// HandlePageDisplay renders an editorial content page by slug.
func HandlePageDisplay(c *fiber.Ctx) error {
	page, err := repos.Page.GetBySlug(c.Params("slug"))
	if err != nil {
		return fiber.ErrNotFound
	}

	return c.Render("page", viewData(c, page.SeoTitleValue(), fiber.Map{
		"Page":           page,
		"SeoDescription": page.SeoDescription,
	}), "layouts/main")
}
