package controllers

import (
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/app/repository"
	"github.com/planhaus/planhaus/internal/pkg/shuffle"
	"github.com/planhaus/planhaus/internal/pkg/storage"
	"github.com/planhaus/planhaus/internal/pkg/usercontext"
	"github.com/planhaus/planhaus/internal/pkg/watermark"
)

var (
	fileStore    storage.Storage
	watermarkSvc *watermark.Service
)

// InitializeFileServices wires the storage backend and the watermark
// service into the controllers.
func InitializeFileServices(store storage.Storage, wm *watermark.Service) {
	fileStore = store
	watermarkSvc = wm
}

// parsePlanFilter reads the catalog filter from the query string.
func parsePlanFilter(c *fiber.Ctx) repository.PlanFilter {
	filter := repository.PlanFilter{
		CategorySlug: c.Query("category"),
		PlanType:     c.Query("type"),
		Bedrooms:     intParam(c, "bedrooms"),
		Floors:       intParam(c, "floors"),
		Query:        c.Query("q"),
		FeaturedOnly: c.Query("featured") == "1",
	}
	if v := c.Query("min_area"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			filter.MinAreaSqm = d
		}
	}
	if v := c.Query("max_area"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			filter.MaxAreaSqm = d
		}
	}
	return filter
}

// canonicalFilterQuery renders the filter as a stable string for the
// shuffle seed. The page number is deliberately excluded so paging
// through results never reshuffles them.
func canonicalFilterQuery(f repository.PlanFilter) string {
	return fmt.Sprintf("category=%s&type=%s&bedrooms=%d&floors=%d&min=%s&max=%s&q=%s&featured=%t",
		f.CategorySlug, f.PlanType, f.Bedrooms, f.Floors,
		f.MinAreaSqm.String(), f.MaxAreaSqm.String(), f.Query, f.FeaturedOnly)
}

// HandlePlanIndex renders the catalog. Each visitor sees their own
// deterministic ordering of the result set; the first unfiltered page
// carries the featured rail with its plans removed from the grid.
func HandlePlanIndex(c *fiber.Ctx) error {
	filter := parsePlanFilter(c)
	page := pageParam(c)

	ids, err := repos.Plan.ListVisibleIDs(filter)
	if err != nil {
		log.Errorf("[Catalog] failed to list plan ids: %v", err)
		return fiber.ErrInternalServerError
	}
	ids = shuffle.Dedupe(ids)

	seed := shuffle.SeedString(
		usercontext.GetShuffleToken(c),
		shuffle.DayToken(time.Now()),
		len(ids),
		canonicalFilterQuery(filter),
	)
	shuffled := shuffle.IDs(seed, ids)

	var featured []models.Plan
	showRail := page == 1 && filter.IsEmpty()
	if showRail {
		featured, err = repos.Plan.ListFeatured(FeaturedRailSize)
		if err != nil {
			log.Errorf("[Catalog] failed to load featured rail: %v", err)
		}
		featuredIDs := make([]uint, 0, len(featured))
		for _, plan := range featured {
			featuredIDs = append(featuredIDs, plan.ID)
		}
		shuffled = shuffle.RemoveFeatured(shuffled, featuredIDs)
	}

	pageIDs := shuffle.Page(shuffled, page, DefaultPageSize)
	plans, err := repos.Plan.ListByIDs(pageIDs)
	if err != nil {
		log.Errorf("[Catalog] failed to load page plans: %v", err)
		return fiber.ErrInternalServerError
	}

	categories, err := repos.Category.GetActive()
	if err != nil {
		log.Errorf("[Catalog] failed to load categories: %v", err)
	}

	pages := totalPages(int64(len(shuffled)), DefaultPageSize)
	prevURL, nextURL := "", ""
	if page > 1 {
		prevURL = catalogPageURL(filter, page-1)
	}
	if page < pages {
		nextURL = catalogPageURL(filter, page+1)
	}

	return c.Render("plans/index", viewData(c, "House Plans", fiber.Map{
		"Plans":      plans,
		"Featured":   featured,
		"ShowRail":   showRail,
		"Categories": categories,
		"Filter":     filter,
		"Page":       page,
		"TotalPages": pages,
		"TotalPlans": len(ids),
		"PrevURL":    prevURL,
		"NextURL":    nextURL,
	}), "layouts/main")
}

// catalogPageURL builds a catalog link that keeps the active filter.
func catalogPageURL(f repository.PlanFilter, page int) string {
	q := url.Values{}
	if f.CategorySlug != "" {
		q.Set("category", f.CategorySlug)
	}
	if f.PlanType != "" {
		q.Set("type", f.PlanType)
	}
	if f.Bedrooms > 0 {
		q.Set("bedrooms", strconv.Itoa(f.Bedrooms))
	}
	if f.Floors > 0 {
		q.Set("floors", strconv.Itoa(f.Floors))
	}
	if !f.MinAreaSqm.IsZero() {
		q.Set("min_area", f.MinAreaSqm.String())
	}
	if !f.MaxAreaSqm.IsZero() {
		q.Set("max_area", f.MaxAreaSqm.String())
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.FeaturedOnly {
		q.Set("featured", "1")
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/plans"
	}
	return "/plans?" + q.Encode()
}

// HandlePlanShow renders a plan detail page. Retired slugs redirect
// permanently to the current one.
func HandlePlanShow(c *fiber.Ctx) error {
	slug := c.Params("slug")

	plan, err := repos.Plan.GetBySlug(slug)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[Plan] lookup failed for %s: %v", slug, err)
			return fiber.ErrInternalServerError
		}
		// retired slug? redirect to its current home
		if prior, histErr := repos.Plan.GetByHistoricalSlug(slug); histErr == nil && prior != nil {
			return c.Redirect("/plans/"+prior.Slug, fiber.StatusMovedPermanently)
		}
		return fiber.ErrNotFound
	}

	// drafts and unpublished plans are only visible to admins
	if !plan.IsVisible() && !usercontext.IsAdmin(c) {
		return fiber.ErrNotFound
	}

	if plan.IsVisible() {
		if err := plan.IncrementViewCount(db); err != nil {
			log.Warnf("[Plan] failed to count view for %s: %v", plan.Reference, err)
		}
	}

	return c.Render("plans/show", viewData(c, plan.Title, fiber.Map{
		"Plan":           plan,
		"PrimaryImage":   plan.PrimaryImage(),
		"Gallery":        plan.GalleryImages(),
		"SeoTitle":       plan.SeoTitleValue(publicDomain()),
		"SeoDescription": plan.SeoDescriptionValue(publicDomain()),
		"SeoKeywords":    plan.SeoKeywordsValue(),
		"AreaSqft":       plan.TotalAreaSqft.StringFixed(2),
		"AreaSqm":        plan.TotalAreaSqm.StringFixed(2),
	}), "layouts/main")
}

// HandleFreePreviewDownload streams the watermarked free preview of a
// plan. The stamped copy is derived lazily and falls back to the
// original when stamping is unavailable.
func HandleFreePreviewDownload(c *fiber.Ctx) error {
	slug := c.Params("slug")

	plan, err := repos.Plan.GetBySlug(slug)
	if err != nil {
		return fiber.ErrNotFound
	}
	if !plan.IsVisible() && !usercontext.IsAdmin(c) {
		return fiber.ErrNotFound
	}
	if !plan.HasFreePlan() {
		return fiber.ErrNotFound
	}

	name := watermarkSvc.Resolve(plan.FreePlanFile, plan.WatermarkedFreePlanName())
	file, err := fileStore.Open(name)
	if err != nil {
		log.Errorf("[Download] failed to open %s: %v", name, err)
		return fiber.ErrNotFound
	}

	if err := plan.IncrementDownloadCount(db); err != nil {
		log.Warnf("[Download] failed to count download for %s: %v", plan.Reference, err)
	}

	filename := fmt.Sprintf("%s-preview%s", plan.Slug, path.Ext(name))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, contentTypeFor(name))
	return c.SendStream(file)
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
