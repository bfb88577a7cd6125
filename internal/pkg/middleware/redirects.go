package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/repository"
)

// RedirectTable consults the managed redirect table before routing. Slug
// changes of plans are handled inside the plan detail handler; this
// middleware covers admin-curated moves of arbitrary paths.
func RedirectTable(redirects repository.RedirectRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}
		redirect, err := redirects.FindByPath(c.Path())
		if err != nil {
			log.Errorf("[Redirect] lookup failed for %s: %v", c.Path(), err)
			return c.Next()
		}
		if redirect == nil {
			return c.Next()
		}
		if err := redirects.RecordHit(redirect); err != nil {
			log.Warnf("[Redirect] failed to record hit for %s: %v", c.Path(), err)
		}
		status := redirect.StatusCode
		if status != fiber.StatusMovedPermanently && status != fiber.StatusFound {
			status = fiber.StatusMovedPermanently
		}
		return c.Redirect(redirect.NewPath, status)
	}
}
