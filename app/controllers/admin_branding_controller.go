package controllers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/imageprocessor"
)

const adminBrandingURL = "/admin/branding"

// HandleAdminBranding renders logo and slide management.
func HandleAdminBranding(c *fiber.Ctx) error {
	logosByType := make(map[string][]models.Logo, 3)
	for _, logoType := range []string{models.LogoTypeHeader, models.LogoTypeFooter, models.LogoTypeFavicon} {
		logos, err := repos.Branding.GetLogosByType(logoType)
		if err != nil {
			log.Errorf("[Admin] failed to load %s logos: %v", logoType, err)
			continue
		}
		logosByType[logoType] = logos
	}
	slides, err := repos.Branding.GetAllSlides()
	if err != nil {
		log.Errorf("[Admin] failed to load slides: %v", err)
	}
	var deletedSlides []models.Slide
	if err := db.Where("is_deleted = ?", true).Order("deleted_at DESC").Find(&deletedSlides).Error; err != nil {
		log.Warnf("[Admin] failed to load deleted slides: %v", err)
	}

	return c.Render("admin/branding", viewData(c, "Branding", fiber.Map{
		"LogosByType":   logosByType,
		"Slides":        slides,
		"DeletedSlides": deletedSlides,
	}), "layouts/admin")
}

// HandleAdminLogoUpload stores a new logo. It is inactive until
// explicitly activated.
func HandleAdminLogoUpload(c *fiber.Ctx) error {
	logoType := c.FormValue("logo_type")
	if logoType != models.LogoTypeHeader && logoType != models.LogoTypeFooter && logoType != models.LogoTypeFavicon {
		return flashError(c, "Unknown logo placement.", adminBrandingURL)
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return flashError(c, "Please choose a logo file.", adminBrandingURL)
	}
	if !imageprocessor.AllowedUpload(fileHeader.Filename) {
		return flashError(c, "Logos must be JPG, PNG, or ICO.", adminBrandingURL)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := fmt.Sprintf("branding/logos/%s%s", uuid.New().String(), ext)
	src, err := fileHeader.Open()
	if err != nil {
		return flashError(c, "Could not read the logo file.", adminBrandingURL)
	}
	defer src.Close()

	// favicons are stored as-is, other logos go through the processor
	if ext == ".ico" {
		if err := fileStore.Save(name, src); err != nil {
			log.Errorf("[Admin] failed to store favicon: %v", err)
			return flashError(c, "Could not save the logo.", adminBrandingURL)
		}
	} else if _, err := imageprocessor.Process(fileStore, name, src); err != nil {
		log.Errorf("[Admin] failed to process logo: %v", err)
		return flashError(c, "Could not process the logo image.", adminBrandingURL)
	}

	logo := &models.Logo{
		LogoType: logoType,
		FilePath: name,
		AltText:  c.FormValue("alt_text"),
	}
	if err := repos.Branding.CreateLogo(logo); err != nil {
		log.Errorf("[Admin] failed to save logo: %v", err)
		return flashError(c, "Could not save the logo.", adminBrandingURL)
	}
	return flashSuccess(c, "Logo uploaded. Activate it to put it live.", adminBrandingURL)
}

// HandleAdminLogoActivate makes one logo the active one of its type.
func HandleAdminLogoActivate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.ErrNotFound
	}
	logo, err := repos.Branding.GetLogoByID(uint(id))
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := repos.Branding.ActivateLogo(logo); err != nil {
		log.Errorf("[Admin] failed to activate logo %d: %v", logo.ID, err)
		return flashError(c, "Could not activate the logo.", adminBrandingURL)
	}
	return flashSuccess(c, "Logo activated.", adminBrandingURL)
}

// HandleAdminLogoDelete removes a logo upload and its file.
func HandleAdminLogoDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.ErrNotFound
	}
	logo, err := repos.Branding.GetLogoByID(uint(id))
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := repos.Branding.DeleteLogo(logo.ID); err != nil {
		log.Errorf("[Admin] failed to delete logo %d: %v", logo.ID, err)
		return flashError(c, "Could not delete the logo.", adminBrandingURL)
	}
	if err := fileStore.Delete(logo.FilePath); err != nil {
		log.Warnf("[Admin] failed to remove logo file %s: %v", logo.FilePath, err)
	}
	return flashSuccess(c, "Logo deleted.", adminBrandingURL)
}

// HandleAdminSlideCreate adds a hero slide.
func HandleAdminSlideCreate(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return flashError(c, "Please choose a slide image.", adminBrandingURL)
	}
	if !imageprocessor.AllowedUpload(fileHeader.Filename) {
		return flashError(c, "Slide images must be JPG or PNG.", adminBrandingURL)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := fmt.Sprintf("branding/slides/%s%s", uuid.New().String(), ext)
	src, err := fileHeader.Open()
	if err != nil {
		return flashError(c, "Could not read the slide image.", adminBrandingURL)
	}
	defer src.Close()
	if _, err := imageprocessor.Process(fileStore, name, src); err != nil {
		log.Errorf("[Admin] failed to process slide image: %v", err)
		return flashError(c, "Could not process the slide image.", adminBrandingURL)
	}

	order, _ := strconv.Atoi(c.FormValue("display_order", "0"))
	slide := &models.Slide{
		Title:        c.FormValue("title"),
		Subtitle:     c.FormValue("subtitle"),
		ImagePath:    name,
		LinkURL:      c.FormValue("link_url"),
		ButtonLabel:  c.FormValue("button_label"),
		DisplayOrder: order,
		IsActive:     c.FormValue("is_active", "1") == "1",
	}
	if err := repos.Branding.CreateSlide(slide); err != nil {
		log.Errorf("[Admin] failed to save slide: %v", err)
		return flashError(c, "Could not save the slide.", adminBrandingURL)
	}
	return flashSuccess(c, "Slide added.", adminBrandingURL)
}

// HandleAdminSlideUpdate edits slide text, order, and visibility.
func HandleAdminSlideUpdate(c *fiber.Ctx) error {
	slide, err := adminSlideByID(c)
	if err != nil {
		return err
	}
	slide.Title = c.FormValue("title", slide.Title)
	slide.Subtitle = c.FormValue("subtitle", slide.Subtitle)
	slide.LinkURL = c.FormValue("link_url", slide.LinkURL)
	slide.ButtonLabel = c.FormValue("button_label", slide.ButtonLabel)
	if v, err := strconv.Atoi(c.FormValue("display_order", "")); err == nil {
		slide.DisplayOrder = v
	}
	slide.IsActive = c.FormValue("is_active") == "1"

	if err := repos.Branding.UpdateSlide(slide); err != nil {
		log.Errorf("[Admin] failed to update slide %d: %v", slide.ID, err)
		return flashError(c, "Could not save the slide.", adminBrandingURL)
	}
	return flashSuccess(c, "Slide saved.", adminBrandingURL)
}

// HandleAdminSlideDelete soft-deletes a slide; its image stays in
// storage so the slide can be restored.
func HandleAdminSlideDelete(c *fiber.Ctx) error {
	slide, err := adminSlideByID(c)
	if err != nil {
		return err
	}
	if err := slide.SoftDelete(db); err != nil {
		log.Errorf("[Admin] failed to delete slide %d: %v", slide.ID, err)
		return flashError(c, "Could not delete the slide.", adminBrandingURL)
	}
	return flashSuccess(c, "Slide removed.", adminBrandingURL)
}

// HandleAdminSlideRestore brings a soft-deleted slide back. It stays
// inactive until re-enabled.
func HandleAdminSlideRestore(c *fiber.Ctx) error {
	slide, err := adminSlideByID(c)
	if err != nil {
		return err
	}
	if err := slide.Restore(db); err != nil {
		log.Errorf("[Admin] failed to restore slide %d: %v", slide.ID, err)
		return flashError(c, "Could not restore the slide.", adminBrandingURL)
	}
	return flashSuccess(c, "Slide restored. Enable it when ready.", adminBrandingURL)
}

func adminSlideByID(c *fiber.Ctx) (*models.Slide, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	slide, err := repos.Branding.GetSlideByID(uint(id))
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return slide, nil
}
