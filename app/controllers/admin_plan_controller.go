package controllers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/imageprocessor"
	"github.com/planhaus/planhaus/internal/pkg/statistics"
	"github.com/planhaus/planhaus/internal/pkg/usercontext"
)

const adminPlansURL = "/admin/plans"

// currentAdmin loads the acting admin for audit attribution.
func currentAdmin(c *fiber.Ctx) *models.User {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return nil
	}
	user, err := repos.User.GetByID(userID)
	if err != nil {
		log.Warnf("[Admin] failed to load acting user %d: %v", userID, err)
		return nil
	}
	return user
}

// adminPlanByID resolves the :id route parameter.
func adminPlanByID(c *fiber.Ctx) (*models.Plan, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	plan, err := repos.Plan.GetByID(uint(id))
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return plan, nil
}

// HandleAdminPlanList lists all plans including soft-deleted ones.
func HandleAdminPlanList(c *fiber.Ctx) error {
	page := pageParam(c)
	includeDeleted := c.Query("deleted") == "1"

	plans, err := repos.Plan.ListAdmin(includeDeleted, (page-1)*50, 50)
	if err != nil {
		log.Errorf("[Admin] failed to list plans: %v", err)
	}
	total, err := repos.Plan.CountAdmin(includeDeleted)
	if err != nil {
		log.Errorf("[Admin] failed to count plans: %v", err)
	}

	return c.Render("admin/plans/index", viewData(c, "Plans", fiber.Map{
		"Plans":          plans,
		"IncludeDeleted": includeDeleted,
		"Page":           page,
		"TotalPages":     totalPages(total, 50),
	}), "layouts/admin")
}

// HandleAdminPlanNew renders the creation form.
func HandleAdminPlanNew(c *fiber.Ctx) error {
	categories, err := repos.Category.GetAll()
	if err != nil {
		log.Errorf("[Admin] failed to load categories: %v", err)
	}
	return c.Render("admin/plans/form", viewData(c, "New Plan", fiber.Map{
		"Plan":       &models.Plan{},
		"Categories": categories,
		"IsNew":      true,
	}), "layouts/admin")
}

// HandleAdminPlanEdit renders the edit form.
func HandleAdminPlanEdit(c *fiber.Ctx) error {
	plan, err := adminPlanByID(c)
	if err != nil {
		return err
	}
	categories, catErr := repos.Category.GetAll()
	if catErr != nil {
		log.Errorf("[Admin] failed to load categories: %v", catErr)
	}
	auditTrail, auditErr := models.GetPlanAuditTrail(db, plan.ID)
	if auditErr != nil {
		log.Errorf("[Admin] failed to load audit trail: %v", auditErr)
	}
	return c.Render("admin/plans/form", viewData(c, "Edit "+plan.Reference, fiber.Map{
		"Plan":       plan,
		"Categories": categories,
		"AuditTrail": auditTrail,
		"IsNew":      false,
	}), "layouts/admin")
}

// applyPlanForm copies the submitted form values onto the plan.
func applyPlanForm(c *fiber.Ctx, plan *models.Plan) error {
	plan.Title = strings.TrimSpace(c.FormValue("title"))
	plan.Description = c.FormValue("description")
	plan.EngineerNotes = c.FormValue("engineer_notes")
	plan.PlanType = c.FormValue("plan_type", models.PlanTypeResidential)
	plan.Featured = c.FormValue("featured") == "1"
	plan.SeoTitle = c.FormValue("seo_title")
	plan.SeoDescription = c.FormValue("seo_description")
	plan.SeoKeywords = c.FormValue("seo_keywords")

	if v, err := strconv.ParseUint(c.FormValue("category_id"), 10, 32); err == nil {
		plan.CategoryID = uint(v)
	}
	if v, err := strconv.Atoi(c.FormValue("bedrooms", "0")); err == nil && v >= 0 {
		plan.Bedrooms = v
	}
	if v, err := strconv.Atoi(c.FormValue("floors", "1")); err == nil && v > 0 {
		plan.Floors = v
	}
	if v := c.FormValue("bathrooms"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			plan.Bathrooms = d
		}
	}

	// the edited side wins the unit conversion
	plan.AreaLastEdited = c.FormValue("area_last_edited")
	if v := c.FormValue("total_area_sqm"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			plan.TotalAreaSqm = d
		}
	}
	if v := c.FormValue("total_area_sqft"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			plan.TotalAreaSqft = d
		}
	}

	if v := c.FormValue("price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			plan.Price = &d
		}
	} else {
		plan.Price = nil
	}
	if v := c.FormValue("pro_pack_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			plan.ProPackPrice = &d
		}
	} else {
		plan.ProPackPrice = nil
	}

	if plan.Title == "" {
		return fmt.Errorf("title is required")
	}
	if plan.CategoryID == 0 {
		return fmt.Errorf("category is required")
	}
	return nil
}

// savePlanFiles stores any uploaded plan documents, replacing the stored
// paths on success.
func savePlanFiles(c *fiber.Ctx, plan *models.Plan) {
	fields := map[string]*string{
		"free_plan_file": &plan.FreePlanFile,
		"paid_plan_file": &plan.PaidPlanFile,
		"pro_pack_file":  &plan.ProPackFile,
	}
	dirs := map[string]string{
		"free_plan_file": "plans/free",
		"paid_plan_file": "plans/paid",
		"pro_pack_file":  "plans/propack",
	}
	for field, target := range fields {
		fileHeader, err := c.FormFile(field)
		if err != nil {
			continue
		}
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		name := fmt.Sprintf("%s/%s%s", dirs[field], uuid.New().String(), ext)
		src, err := fileHeader.Open()
		if err != nil {
			log.Errorf("[Admin] failed to open %s upload: %v", field, err)
			continue
		}
		if err := fileStore.Save(name, src); err != nil {
			log.Errorf("[Admin] failed to store %s: %v", field, err)
			src.Close()
			continue
		}
		src.Close()
		*target = name
	}

	if fileHeader, err := c.FormFile("free_3d_image"); err == nil {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		name := fmt.Sprintf("plans/3d/%s%s", uuid.New().String(), ext)
		if src, err := fileHeader.Open(); err == nil {
			if _, err := imageprocessor.Process(fileStore, name, src); err != nil {
				log.Errorf("[Admin] failed to process 3d image: %v", err)
			} else {
				plan.Free3DImage = name
			}
			src.Close()
		}
	}
}

// HandleAdminPlanCreate creates a plan in draft state.
func HandleAdminPlanCreate(c *fiber.Ctx) error {
	plan := &models.Plan{PublishStatus: models.PlanStatusDraft}
	if err := applyPlanForm(c, plan); err != nil {
		return flashError(c, err.Error(), adminPlansURL+"/new")
	}
	savePlanFiles(c, plan)

	if err := repos.Plan.Create(plan); err != nil {
		log.Errorf("[Admin] failed to create plan: %v", err)
		return flashError(c, "Could not create the plan.", adminPlansURL+"/new")
	}
	if err := models.LogPlanAction(db, plan, models.AuditActionCreated, currentAdmin(c), "", nil); err != nil {
		log.Warnf("[Admin] failed to log plan creation: %v", err)
	}
	return flashSuccess(c, "Plan "+plan.Reference+" created.", adminPlanURL(plan.ID))
}

// HandleAdminPlanUpdate saves edits to an existing plan.
func HandleAdminPlanUpdate(c *fiber.Ctx) error {
	plan, err := adminPlanByID(c)
	if err != nil {
		return err
	}
	if err := applyPlanForm(c, plan); err != nil {
		return flashError(c, err.Error(), adminPlanURL(plan.ID))
	}
	savePlanFiles(c, plan)

	if err := repos.Plan.Update(plan); err != nil {
		log.Errorf("[Admin] failed to update plan %s: %v", plan.Reference, err)
		return flashError(c, "Could not save the plan.", adminPlanURL(plan.ID))
	}
	if err := models.LogPlanAction(db, plan, models.AuditActionUpdated, currentAdmin(c), "", nil); err != nil {
		log.Warnf("[Admin] failed to log plan update: %v", err)
	}
	statistics.Invalidate()
	return flashSuccess(c, "Plan saved.", adminPlanURL(plan.ID))
}

func adminPlanURL(id uint) string {
	return fmt.Sprintf("%s/%d/edit", adminPlansURL, id)
}

// lifecycleAction runs one plan lifecycle transition with flash feedback.
func lifecycleAction(c *fiber.Ctx, action func(*models.Plan, *models.User, string) error, successMsg string) error {
	plan, err := adminPlanByID(c)
	if err != nil {
		return err
	}
	note := c.FormValue("note")
	if err := action(plan, currentAdmin(c), note); err != nil {
		return flashError(c, err.Error(), adminPlanURL(plan.ID))
	}
	statistics.Invalidate()
	return flashSuccess(c, plan.Reference+" "+successMsg, adminPlanURL(plan.ID))
}

func HandleAdminPlanPublish(c *fiber.Ctx) error {
	return lifecycleAction(c, func(p *models.Plan, actor *models.User, note string) error {
		return p.Publish(db, actor, note)
	}, "published.")
}

func HandleAdminPlanUnpublish(c *fiber.Ctx) error {
	return lifecycleAction(c, func(p *models.Plan, actor *models.User, note string) error {
		return p.Unpublish(db, actor, note)
	}, "unpublished.")
}

func HandleAdminPlanDraft(c *fiber.Ctx) error {
	return lifecycleAction(c, func(p *models.Plan, actor *models.User, note string) error {
		return p.MarkDraft(db, actor, note)
	}, "moved to draft.")
}

func HandleAdminPlanSoftDelete(c *fiber.Ctx) error {
	return lifecycleAction(c, func(p *models.Plan, actor *models.User, note string) error {
		return p.SoftDelete(db, actor, note)
	}, "deleted. It can be restored until it is permanently removed.")
}

func HandleAdminPlanRestore(c *fiber.Ctx) error {
	plan, err := adminPlanByID(c)
	if err != nil {
		return err
	}
	if err := plan.Restore(db, currentAdmin(c)); err != nil {
		return flashError(c, err.Error(), adminPlanURL(plan.ID))
	}
	return flashSuccess(c, plan.Reference+" restored. It stays unpublished until you publish it again.", adminPlanURL(plan.ID))
}

// HandleAdminPlanHardDeleteConfirm shows the two-step confirmation page
// with the full file manifest that will be removed.
func HandleAdminPlanHardDeleteConfirm(c *fiber.Ctx) error {
	plan, err := adminPlanByID(c)
	if err != nil {
		return err
	}
	return c.Render("admin/plans/hard_delete", viewData(c, "Permanently delete "+plan.Reference, fiber.Map{
		"Plan":     plan,
		"Manifest": plan.FileManifest(),
	}), "layouts/admin")
}

// HandleAdminPlanHardDelete permanently removes a soft-deleted plan. The
// admin must retype the plan reference to confirm.
func HandleAdminPlanHardDelete(c *fiber.Ctx) error {
	plan, err := adminPlanByID(c)
	if err != nil {
		return err
	}
	if c.FormValue("confirm_reference") != plan.Reference {
		return flashError(c, "The reference you typed does not match.", fmt.Sprintf("%s/%d/hard-delete", adminPlansURL, plan.ID))
	}

	deletionLog, err := plan.HardDelete(db, fileStore, currentAdmin(c), c.FormValue("reason"))
	if err != nil {
		return flashError(c, err.Error(), adminPlanURL(plan.ID))
	}
	statistics.Invalidate()

	msg := fmt.Sprintf("%s permanently deleted.", deletionLog.PlanReference)
	if len(deletionLog.FileErrors) > 0 {
		msg += " Some files could not be removed; see the deletion log."
	}
	return flashSuccess(c, msg, adminPlansURL)
}

// HandleAdminPlanImageUpload attaches a gallery image to a plan.
func HandleAdminPlanImageUpload(c *fiber.Ctx) error {
	plan, err := adminPlanByID(c)
	if err != nil {
		return err
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return flashError(c, "Please choose an image file.", adminPlanURL(plan.ID))
	}
	if !imageprocessor.AllowedUpload(fileHeader.Filename) {
		return flashError(c, "Images must be JPG or PNG.", adminPlanURL(plan.ID))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := fmt.Sprintf("plans/images/%s%s", uuid.New().String(), ext)
	src, err := fileHeader.Open()
	if err != nil {
		return flashError(c, "Could not read the image.", adminPlanURL(plan.ID))
	}
	defer src.Close()

	bounds, err := imageprocessor.Process(fileStore, name, src)
	if err != nil {
		log.Errorf("[Admin] failed to process plan image: %v", err)
		return flashError(c, "Could not process the image.", adminPlanURL(plan.ID))
	}

	image := &models.PlanImage{
		PlanID:    plan.ID,
		FilePath:  name,
		ImageType: c.FormValue("image_type", models.ImageTypeFloorPlan),
		Caption:   c.FormValue("caption"),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		IsPrimary: c.FormValue("is_primary") == "1",
	}
	if err := db.Create(image).Error; err != nil {
		log.Errorf("[Admin] failed to save plan image: %v", err)
		return flashError(c, "Could not save the image.", adminPlanURL(plan.ID))
	}
	return flashSuccess(c, "Image added.", adminPlanURL(plan.ID))
}

// HandleAdminPlanImageDelete removes a gallery image and its files.
func HandleAdminPlanImageDelete(c *fiber.Ctx) error {
	plan, err := adminPlanByID(c)
	if err != nil {
		return err
	}
	imageID, err := strconv.ParseUint(c.Params("imageID"), 10, 32)
	if err != nil {
		return fiber.ErrNotFound
	}

	var image models.PlanImage
	if err := db.Where("id = ? AND plan_id = ?", imageID, plan.ID).First(&image).Error; err != nil {
		return fiber.ErrNotFound
	}
	if err := db.Delete(&image).Error; err != nil {
		log.Errorf("[Admin] failed to delete plan image: %v", err)
		return flashError(c, "Could not delete the image.", adminPlanURL(plan.ID))
	}
	for _, name := range []string{image.FilePath, imageprocessor.ThumbName(image.FilePath)} {
		if err := fileStore.Delete(name); err != nil {
			log.Warnf("[Admin] failed to remove image file %s: %v", name, err)
		}
	}
	return flashSuccess(c, "Image removed.", adminPlanURL(plan.ID))
}
