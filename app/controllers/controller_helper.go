package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/planhaus/planhaus/internal/pkg/env"
	"github.com/planhaus/planhaus/internal/pkg/usercontext"
)

// DefaultPageSize is the catalog grid capacity per page.
const DefaultPageSize = 12

// FeaturedRailSize caps the featured rail on the first catalog page.
const FeaturedRailSize = 4

// viewData assembles the base template data every page needs: user
// context, flash message, and branding values.
func viewData(c *fiber.Ctx, title string, extra fiber.Map) fiber.Map {
	userCtx := usercontext.GetUserContext(c)
	data := fiber.Map{
		"Title":      title,
		"Brand":      env.GetEnv("BRAND_NAME", "PlanHaus"),
		"Domain":     env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"),
		"IsLoggedIn": userCtx.IsLoggedIn,
		"IsAdmin":    userCtx.IsAdmin,
		"Username":   userCtx.Username,
		"Flash":      flash.Get(c),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// pageParam parses the 1-based ?page= query parameter.
func pageParam(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// intParam parses a positive integer query parameter, 0 when absent or
// invalid.
func intParam(c *fiber.Ctx, name string) int {
	v, err := strconv.Atoi(c.Query(name, "0"))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// totalPages computes the page count for a listing.
func totalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 1
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

// flashError redirects back with an error flash message.
func flashError(c *fiber.Ctx, message, target string) error {
	fm := fiber.Map{"type": "error", "message": message}
	return flash.WithError(c, fm).Redirect(target)
}

// flashSuccess redirects with a success flash message.
func flashSuccess(c *fiber.Ctx, message, target string) error {
	fm := fiber.Map{"type": "success", "message": message}
	return flash.WithSuccess(c, fm).Redirect(target)
}
