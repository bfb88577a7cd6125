package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/models"
)

const adminCategoriesURL = "/admin/categories"

// HandleAdminCategoryList shows all categories with their plan counts.
func HandleAdminCategoryList(c *fiber.Ctx) error {
	categories, err := repos.Category.GetAll()
	if err != nil {
		log.Errorf("[Admin] failed to list categories: %v", err)
		return fiber.ErrInternalServerError
	}
	counts := make(map[uint]int64, len(categories))
	for _, cat := range categories {
		n, err := repos.Category.CountPlans(cat.ID)
		if err != nil {
			log.Warnf("[Admin] plan count for category %d failed: %v", cat.ID, err)
			continue
		}
		counts[cat.ID] = n
	}
	return c.Render("admin/categories/index", viewData(c, "Categories", fiber.Map{
		"Categories": categories,
		"PlanCounts": counts,
	}), "layouts/admin")
}

// HandleAdminCategoryCreate adds a category from the inline form.
func HandleAdminCategoryCreate(c *fiber.Ctx) error {
	name := c.FormValue("name")
	if name == "" {
		return flashError(c, "Category name is required.", adminCategoriesURL)
	}
	order, _ := strconv.Atoi(c.FormValue("display_order", "0"))

	category := &models.Category{
		Name:         name,
		Description:  c.FormValue("description"),
		DisplayOrder: order,
		IsActive:     c.FormValue("is_active", "1") == "1",
	}
	if err := category.Validate(); err != nil {
		return flashError(c, "Category name is invalid.", adminCategoriesURL)
	}
	if err := repos.Category.Create(category); err != nil {
		log.Errorf("[Admin] failed to create category: %v", err)
		return flashError(c, "Could not save the category. The name may already be in use.", adminCategoriesURL)
	}
	return flashSuccess(c, "Category created.", adminCategoriesURL)
}

// HandleAdminCategoryUpdate edits a category.
func HandleAdminCategoryUpdate(c *fiber.Ctx) error {
	category, err := adminCategoryByID(c)
	if err != nil {
		return err
	}
	if name := c.FormValue("name"); name != "" {
		category.Name = name
	}
	category.Description = c.FormValue("description", category.Description)
	if v, err := strconv.Atoi(c.FormValue("display_order", "")); err == nil {
		category.DisplayOrder = v
	}
	category.IsActive = c.FormValue("is_active") == "1"

	if err := repos.Category.Update(category); err != nil {
		log.Errorf("[Admin] failed to update category %d: %v", category.ID, err)
		return flashError(c, "Could not save the category.", adminCategoriesURL)
	}
	return flashSuccess(c, "Category saved.", adminCategoriesURL)
}

// HandleAdminCategoryDelete removes a category that owns no plans.
func HandleAdminCategoryDelete(c *fiber.Ctx) error {
	category, err := adminCategoryByID(c)
	if err != nil {
		return err
	}
	count, err := repos.Category.CountPlans(category.ID)
	if err != nil {
		log.Errorf("[Admin] plan count for category %d failed: %v", category.ID, err)
		return fiber.ErrInternalServerError
	}
	if count > 0 {
		return flashError(c, "This category still has plans assigned. Reassign them first.", adminCategoriesURL)
	}
	if err := repos.Category.Delete(category.ID); err != nil {
		log.Errorf("[Admin] failed to delete category %d: %v", category.ID, err)
		return flashError(c, "Could not delete the category.", adminCategoriesURL)
	}
	return flashSuccess(c, "Category deleted.", adminCategoriesURL)
}

func adminCategoryByID(c *fiber.Ctx) (*models.Category, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	category, err := repos.Category.GetByID(uint(id))
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return category, nil
}
