package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/models"
)

const adminPagesURL = "/admin/pages"

// HandleAdminPageList renders the editorial page overview.
func HandleAdminPageList(c *fiber.Ctx) error {
	pages, err := repos.Page.GetAll()
	if err != nil {
		log.Errorf("[Admin] failed to list pages: %v", err)
		return fiber.ErrInternalServerError
	}
	return c.Render("admin/pages/index", viewData(c, "Pages", fiber.Map{
		"Pages": pages,
	}), "layouts/admin")
}

// HandleAdminPageNew renders the creation form.
func HandleAdminPageNew(c *fiber.Ctx) error {
	return c.Render("admin/pages/form", viewData(c, "New Page", fiber.Map{
		"Page":  &models.Page{IsActive: true},
		"IsNew": true,
	}), "layouts/admin")
}

// HandleAdminPageEdit renders the edit form.
func HandleAdminPageEdit(c *fiber.Ctx) error {
	page, err := adminPageByID(c)
	if err != nil {
		return err
	}
	return c.Render("admin/pages/form", viewData(c, "Edit Page", fiber.Map{
		"Page":  page,
		"IsNew": false,
	}), "layouts/admin")
}

// HandleAdminPageCreate creates a page from the form.
func HandleAdminPageCreate(c *fiber.Ctx) error {
	page := &models.Page{}
	applyPageForm(c, page)
	if page.Title == "" || page.Content == "" {
		return flashError(c, "Title and content are required.", adminPagesURL+"/new")
	}

	slug := page.Slug
	if slug == "" {
		slug = models.Slugify(page.Title)
	}
	exists, err := repos.Page.SlugExists(slug)
	if err != nil {
		log.Errorf("[Admin] slug check failed: %v", err)
		return fiber.ErrInternalServerError
	}
	if exists {
		return flashError(c, "A page with this slug already exists.", adminPagesURL+"/new")
	}

	if err := repos.Page.Create(page); err != nil {
		log.Errorf("[Admin] failed to create page: %v", err)
		return flashError(c, "Could not save the page.", adminPagesURL+"/new")
	}
	return flashSuccess(c, "Page created.", adminPagesURL)
}

// HandleAdminPageUpdate saves edits to an existing page.
func HandleAdminPageUpdate(c *fiber.Ctx) error {
	page, err := adminPageByID(c)
	if err != nil {
		return err
	}
	editURL := adminPagesURL + "/" + strconv.FormatUint(uint64(page.ID), 10) + "/edit"

	applyPageForm(c, page)
	if page.Title == "" || page.Content == "" {
		return flashError(c, "Title and content are required.", editURL)
	}
	if page.Slug == "" {
		page.Slug = models.Slugify(page.Title)
	}
	exists, err := repos.Page.SlugExistsExceptID(page.Slug, page.ID)
	if err != nil {
		log.Errorf("[Admin] slug check failed: %v", err)
		return fiber.ErrInternalServerError
	}
	if exists {
		return flashError(c, "A page with this slug already exists.", editURL)
	}

	if err := repos.Page.Update(page); err != nil {
		log.Errorf("[Admin] failed to update page %d: %v", page.ID, err)
		return flashError(c, "Could not save the page.", editURL)
	}
	return flashSuccess(c, "Page saved.", adminPagesURL)
}

// HandleAdminPageDelete removes a page.
func HandleAdminPageDelete(c *fiber.Ctx) error {
	page, err := adminPageByID(c)
	if err != nil {
		return err
	}
	if err := repos.Page.Delete(page.ID); err != nil {
		log.Errorf("[Admin] failed to delete page %d: %v", page.ID, err)
		return flashError(c, "Could not delete the page.", adminPagesURL)
	}
	return flashSuccess(c, "Page deleted.", adminPagesURL)
}

func applyPageForm(c *fiber.Ctx, page *models.Page) {
	page.Title = c.FormValue("title")
	page.Slug = models.Slugify(c.FormValue("slug"))
	page.Content = c.FormValue("content")
	page.SeoTitle = c.FormValue("seo_title")
	page.SeoDescription = c.FormValue("seo_description")
	page.ShowInFooter = c.FormValue("show_in_footer") == "1"
	page.IsActive = c.FormValue("is_active") == "1"
}

func adminPageByID(c *fiber.Ctx) (*models.Page, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	page, err := repos.Page.GetByID(uint(id))
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return page, nil
}
