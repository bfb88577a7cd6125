package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/models"
)

const adminRedirectsURL = "/admin/redirects"

// HandleAdminRedirectList shows the managed redirect table.
func HandleAdminRedirectList(c *fiber.Ctx) error {
	redirects, err := repos.Redirect.GetAll()
	if err != nil {
		log.Errorf("[Admin] failed to list redirects: %v", err)
		return fiber.ErrInternalServerError
	}
	return c.Render("admin/redirects/index", viewData(c, "Redirects", fiber.Map{
		"Redirects": redirects,
	}), "layouts/admin")
}

// HandleAdminRedirectCreate adds a redirect rule.
func HandleAdminRedirectCreate(c *fiber.Ctx) error {
	oldPath := normalizeRedirectPath(c.FormValue("old_path"))
	newPath := strings.TrimSpace(c.FormValue("new_path"))
	if oldPath == "" || newPath == "" {
		return flashError(c, "Both the old path and the target are required.", adminRedirectsURL)
	}
	if oldPath == newPath {
		return flashError(c, "A redirect cannot point to itself.", adminRedirectsURL)
	}

	statusCode, _ := strconv.Atoi(c.FormValue("status_code", "301"))
	if statusCode != fiber.StatusMovedPermanently && statusCode != fiber.StatusFound {
		statusCode = fiber.StatusMovedPermanently
	}

	redirect := &models.Redirect{
		OldPath:    oldPath,
		NewPath:    newPath,
		StatusCode: statusCode,
		IsActive:   true,
	}
	if err := repos.Redirect.Create(redirect); err != nil {
		log.Errorf("[Admin] failed to create redirect: %v", err)
		return flashError(c, "Could not save the redirect. The old path may already be mapped.", adminRedirectsURL)
	}
	return flashSuccess(c, "Redirect created.", adminRedirectsURL)
}

// HandleAdminRedirectToggle flips a redirect between active and paused.
func HandleAdminRedirectToggle(c *fiber.Ctx) error {
	redirect, err := adminRedirectByID(c)
	if err != nil {
		return err
	}
	redirect.IsActive = !redirect.IsActive
	if err := repos.Redirect.Update(redirect); err != nil {
		log.Errorf("[Admin] failed to toggle redirect %d: %v", redirect.ID, err)
		return flashError(c, "Could not update the redirect.", adminRedirectsURL)
	}
	state := "paused"
	if redirect.IsActive {
		state = "active"
	}
	return flashSuccess(c, "Redirect is now "+state+".", adminRedirectsURL)
}

// HandleAdminRedirectDelete removes a redirect rule.
func HandleAdminRedirectDelete(c *fiber.Ctx) error {
	redirect, err := adminRedirectByID(c)
	if err != nil {
		return err
	}
	if err := repos.Redirect.Delete(redirect.ID); err != nil {
		log.Errorf("[Admin] failed to delete redirect %d: %v", redirect.ID, err)
		return flashError(c, "Could not delete the redirect.", adminRedirectsURL)
	}
	return flashSuccess(c, "Redirect deleted.", adminRedirectsURL)
}

func adminRedirectByID(c *fiber.Ctx) (*models.Redirect, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	redirect, err := repos.Redirect.GetByID(uint(id))
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return redirect, nil
}

// normalizeRedirectPath forces a leading slash and strips trailing
// whitespace so table lookups match request paths exactly.
func normalizeRedirectPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
