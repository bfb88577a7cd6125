package models

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Publish status values for plans
const (
	PlanStatusDraft       = "draft"
	PlanStatusUnpublished = "unpublished"
	PlanStatusPublished   = "published"
)

// Plan type values
const (
	PlanTypeResidential = "residential"
	PlanTypeCommercial  = "commercial"
	PlanTypeMixed       = "mixed"
	PlanTypeOther       = "other"
)

// AreaConversionFactor converts square meters to square feet.
var AreaConversionFactor = decimal.RequireFromString("10.7639")

// Plan is a sellable construction-ready house plan.
type Plan struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=1,max=200"`
	Slug      string `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Reference string `gorm:"type:varchar(50);uniqueIndex" json:"reference"`

	CategoryID uint     `gorm:"index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PlanType   string   `gorm:"type:varchar(20);default:'residential'" json:"plan_type" validate:"oneof=residential commercial mixed other"`

	// Specifications
	Bedrooms      int             `gorm:"not null" json:"bedrooms" validate:"min=0"`
	Bathrooms     decimal.Decimal `gorm:"type:decimal(3,1)" json:"bathrooms"`
	Floors        int             `gorm:"default:1" json:"floors" validate:"min=0"`
	TotalAreaSqm  decimal.Decimal `gorm:"type:decimal(8,2)" json:"total_area_sqm"`
	TotalAreaSqft decimal.Decimal `gorm:"type:decimal(8,2)" json:"total_area_sqft"`

	// Content
	Description   string `gorm:"type:text" json:"description"`
	EngineerNotes string `gorm:"type:text" json:"-"` // internal, never rendered publicly

	// Files (paths within the storage root)
	FreePlanFile string `gorm:"type:varchar(255)" json:"free_plan_file"`
	Free3DImage  string `gorm:"column:free_3d_image;type:varchar(255)" json:"free_3d_image"`
	PaidPlanFile string `gorm:"type:varchar(255)" json:"-"`
	ProPackFile  string `gorm:"type:varchar(255)" json:"-"`

	// Pricing per pack (USD)
	Price        *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	ProPackPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"pro_pack_price"`

	// Visibility & lifecycle
	PublishStatus     string     `gorm:"type:varchar(20);default:'draft';index" json:"publish_status"`
	PublishedAt       *time.Time `json:"published_at"`
	UnpublishedAt     *time.Time `json:"unpublished_at"`
	UnpublishedByID   *uint      `json:"unpublished_by_id"`
	UnpublishedReason string     `gorm:"type:varchar(255)" json:"unpublished_reason"`
	Featured          bool       `gorm:"default:false" json:"featured"`
	IsDeleted         bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt         *time.Time `json:"deleted_at"`
	DeletedByID       *uint      `json:"deleted_by_id"`

	// SEO
	SeoTitle       string `gorm:"type:varchar(60)" json:"seo_title"`
	SeoDescription string `gorm:"type:varchar(160)" json:"seo_description"`
	SeoKeywords    string `gorm:"type:varchar(255)" json:"seo_keywords"`

	// Counters
	ViewsCount     int `gorm:"default:0" json:"views_count"`
	DownloadsCount int `gorm:"default:0" json:"downloads_count"`

	Images    []PlanImage `gorm:"foreignKey:PlanID" json:"images,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// set by forms to force the conversion direction; not persisted
	AreaLastEdited string `gorm:"-" json:"-"`

	oldSlug      string
	slugCaptured bool
}

func (p *Plan) Validate() error {
	v := validator.New()
	return v.Struct(p)
}

// BeforeCreate assigns the immutable reference from the per-year sequence.
func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.Reference == "" {
		ref, err := NextReferenceForYear(tx, time.Now().Year())
		if err != nil {
			return err
		}
		p.Reference = ref
	}
	return nil
}

// BeforeSave normalizes the slug, keeps the two area units in sync, and
// remembers the previous slug so AfterSave can record redirect history.
func (p *Plan) BeforeSave(tx *gorm.DB) error {
	base := p.Slug
	if base == "" {
		base = p.Title
	}
	p.Slug = Slugify(base)

	p.oldSlug = ""
	p.slugCaptured = false
	var old Plan
	if p.ID != 0 {
		if err := tx.Session(&gorm.Session{NewDB: true}).
			Select("slug", "reference", "total_area_sqm", "total_area_sqft").
			First(&old, p.ID).Error; err == nil {
			p.oldSlug = old.Slug
			p.slugCaptured = true
			// The reference is immutable once assigned.
			if old.Reference != "" {
				p.Reference = old.Reference
			}
		}
	}

	p.syncAreas(&old)

	if p.IsDeleted {
		p.PublishStatus = PlanStatusUnpublished
	}
	if p.PublishStatus == PlanStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	return nil
}

// AfterSave persists slug history whenever the slug changed.
func (p *Plan) AfterSave(tx *gorm.DB) error {
	if !p.slugCaptured || p.oldSlug == "" || p.oldSlug == p.Slug {
		return nil
	}
	history := PlanSlugHistory{PlanID: p.ID, Slug: p.oldSlug}
	return tx.Session(&gorm.Session{NewDB: true}).
		Where("slug = ?", p.oldSlug).FirstOrCreate(&history).Error
}

func (p *Plan) syncAreas(old *Plan) {
	p.TotalAreaSqm = quantizeArea(p.TotalAreaSqm)
	p.TotalAreaSqft = quantizeArea(p.TotalAreaSqft)

	sqmChanged := old != nil && old.ID != 0 && !p.TotalAreaSqm.Equal(old.TotalAreaSqm)
	sqftChanged := old != nil && old.ID != 0 && !p.TotalAreaSqft.Equal(old.TotalAreaSqft)

	switch {
	case p.AreaLastEdited == "sqm" && p.TotalAreaSqm.IsPositive():
		p.TotalAreaSqft = SqmToSqft(p.TotalAreaSqm)
	case p.AreaLastEdited == "sqft" && p.TotalAreaSqft.IsPositive():
		p.TotalAreaSqm = SqftToSqm(p.TotalAreaSqft)
	case p.TotalAreaSqm.IsPositive() && p.TotalAreaSqft.IsZero():
		p.TotalAreaSqft = SqmToSqft(p.TotalAreaSqm)
	case p.TotalAreaSqft.IsPositive() && p.TotalAreaSqm.IsZero():
		p.TotalAreaSqm = SqftToSqm(p.TotalAreaSqft)
	case sqmChanged && !sqftChanged:
		p.TotalAreaSqft = SqmToSqft(p.TotalAreaSqm)
	case sqftChanged && !sqmChanged:
		p.TotalAreaSqm = SqftToSqm(p.TotalAreaSqft)
	}
}

func quantizeArea(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// SqmToSqft converts square meters to square feet, half-up to 2 decimals.
func SqmToSqft(sqm decimal.Decimal) decimal.Decimal {
	return sqm.Mul(AreaConversionFactor).Round(2)
}

// SqftToSqm converts square feet to square meters, half-up to 2 decimals.
func SqftToSqm(sqft decimal.Decimal) decimal.Decimal {
	return sqft.DivRound(AreaConversionFactor, 2)
}

// IsVisible reports whether the plan may be shown publicly.
func (p *Plan) IsVisible() bool {
	return p.PublishStatus == PlanStatusPublished && !p.IsDeleted
}

func (p *Plan) IsPublished() bool {
	return p.PublishStatus == PlanStatusPublished
}

func (p *Plan) IsDraft() bool {
	return p.PublishStatus == PlanStatusDraft
}

func (p *Plan) HasFreePlan() bool {
	return p.FreePlanFile != ""
}

func (p *Plan) HasPaidPlan() bool {
	return p.PaidPlanFile != "" && p.Price != nil && p.Price.IsPositive()
}

func (p *Plan) HasProPack() bool {
	return p.ProPackFile != "" && p.ProPackPrice != nil && p.ProPackPrice.IsPositive()
}

// WatermarkedFreePlanName derives the stamped copy's storage path from the
// free preview path ("plans/free/a.pdf" -> "plans/free/a_watermarked.pdf").
func (p *Plan) WatermarkedFreePlanName() string {
	if p.FreePlanFile == "" {
		return ""
	}
	ext := path.Ext(p.FreePlanFile)
	stem := strings.TrimSuffix(p.FreePlanFile, ext)
	return stem + "_watermarked" + ext
}

// SeoTitleValue returns the custom SEO title or an auto-generated one.
func (p *Plan) SeoTitleValue(brandDomain string) string {
	if p.SeoTitle != "" {
		return p.SeoTitle
	}
	return fmt.Sprintf("%s House Plan | %s | %s", p.Title, p.Reference, brandDomain)
}

// SeoDescriptionValue returns the custom SEO description or an auto-generated one.
func (p *Plan) SeoDescriptionValue(brandDomain string) string {
	if p.SeoDescription != "" {
		return p.SeoDescription
	}
	return fmt.Sprintf(
		"%s: %d bed, %s bath, %sm² %s house plan. Download the free preview. Build-ready upgrades available on %s.",
		p.Title, p.Bedrooms, p.Bathrooms.String(), p.TotalAreaSqm.String(), p.PlanType, brandDomain,
	)
}

// SeoKeywordsValue returns the custom SEO keywords or an auto-generated set.
func (p *Plan) SeoKeywordsValue() string {
	if p.SeoKeywords != "" {
		return p.SeoKeywords
	}
	keywords := []string{
		"house plan",
		"floor plan",
		"architectural plans",
		fmt.Sprintf("%d bedroom house plan", p.Bedrooms),
		fmt.Sprintf("%sm2 house plan", p.TotalAreaSqm.Truncate(0).String()),
	}
	if p.Category.Name != "" {
		keywords = append(keywords, strings.ToLower(p.Category.Name)+" house plan")
	}
	return strings.Join(keywords, ", ")
}

// PrimaryImage returns the explicitly flagged primary image, falling back to
// the first image in display order.
func (p *Plan) PrimaryImage() *PlanImage {
	var first *PlanImage
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
		if first == nil {
			first = &p.Images[i]
		}
	}
	return first
}

// GalleryImages returns every non-primary image preserving display order.
func (p *Plan) GalleryImages() []PlanImage {
	primary := p.PrimaryImage()
	gallery := make([]PlanImage, 0, len(p.Images))
	for _, img := range p.Images {
		if primary != nil && img.ID == primary.ID {
			continue
		}
		gallery = append(gallery, img)
	}
	return gallery
}

// ---------- Lifecycle ----------

// Publish makes the plan publicly visible. Deleted plans must be restored
// first.
func (p *Plan) Publish(db *gorm.DB, actor *User, note string) error {
	if p.IsDeleted {
		return &ValidationError{Message: "cannot publish a deleted plan, restore it first"}
	}
	if p.PublishStatus == PlanStatusPublished {
		return nil
	}
	now := time.Now()
	p.PublishStatus = PlanStatusPublished
	p.PublishedAt = &now
	p.UnpublishedAt = nil
	p.UnpublishedByID = nil
	p.UnpublishedReason = ""
	if err := db.Model(p).Select(
		"publish_status", "published_at", "unpublished_at", "unpublished_by_id", "unpublished_reason",
	).Updates(p).Error; err != nil {
		return err
	}
	return LogPlanAction(db, p, AuditActionPublished, actor, note, nil)
}

// Unpublish hides the plan from the public. No-op when already unpublished.
func (p *Plan) Unpublish(db *gorm.DB, actor *User, reason string) error {
	if p.PublishStatus == PlanStatusUnpublished {
		return nil
	}
	now := time.Now()
	p.PublishStatus = PlanStatusUnpublished
	p.UnpublishedAt = &now
	if actor != nil {
		p.UnpublishedByID = &actor.ID
	}
	if reason != "" {
		p.UnpublishedReason = reason
	}
	if err := db.Model(p).Select(
		"publish_status", "unpublished_at", "unpublished_by_id", "unpublished_reason",
	).Updates(p).Error; err != nil {
		return err
	}
	return LogPlanAction(db, p, AuditActionUnpublished, actor, reason, nil)
}

// MarkDraft returns the plan to draft mode. Deleted plans must be restored
// first.
func (p *Plan) MarkDraft(db *gorm.DB, actor *User, note string) error {
	if p.IsDeleted {
		return &ValidationError{Message: "cannot mark a deleted plan as draft, restore it first"}
	}
	if p.PublishStatus == PlanStatusDraft {
		return nil
	}
	wasPublished := p.IsPublished()
	now := time.Now()
	p.PublishStatus = PlanStatusDraft
	if wasPublished {
		p.UnpublishedAt = &now
		if actor != nil {
			p.UnpublishedByID = &actor.ID
		}
		if note != "" {
			p.UnpublishedReason = note
		}
	}
	if err := db.Model(p).Select(
		"publish_status", "unpublished_at", "unpublished_by_id", "unpublished_reason",
	).Updates(p).Error; err != nil {
		return err
	}
	return LogPlanAction(db, p, AuditActionDrafted, actor, note, nil)
}

// SoftDelete hides the plan reversibly and forces it to unpublished.
func (p *Plan) SoftDelete(db *gorm.DB, actor *User, reason string) error {
	if p.IsDeleted {
		return nil
	}
	now := time.Now()
	p.IsDeleted = true
	p.DeletedAt = &now
	if actor != nil {
		p.DeletedByID = &actor.ID
	}
	p.PublishStatus = PlanStatusUnpublished
	if err := db.Model(p).Select(
		"is_deleted", "deleted_at", "deleted_by_id", "publish_status",
	).Updates(p).Error; err != nil {
		return err
	}
	return LogPlanAction(db, p, AuditActionSoftDeleted, actor, reason, nil)
}

// Restore clears the soft-delete flag. The plan stays unpublished; it is
// never auto-republished.
func (p *Plan) Restore(db *gorm.DB, actor *User) error {
	if !p.IsDeleted {
		return nil
	}
	p.IsDeleted = false
	p.DeletedAt = nil
	p.DeletedByID = nil
	if err := db.Model(p).Select(
		"is_deleted", "deleted_at", "deleted_by_id",
	).Updates(p).Error; err != nil {
		return err
	}
	return LogPlanAction(db, p, AuditActionRestored, actor, "", nil)
}

// FileManifestEntry is one storage path captured before hard deletion.
type FileManifestEntry struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Type  string `json:"type"`
}

// FileManifest lists every storage path tied to this plan.
func (p *Plan) FileManifest() []FileManifestEntry {
	var manifest []FileManifestEntry
	appendEntry := func(label, path, assetType string) {
		if path == "" {
			return
		}
		manifest = append(manifest, FileManifestEntry{Label: label, Path: path, Type: assetType})
	}

	appendEntry("Free PDF", p.FreePlanFile, "free_pdf")
	appendEntry("Free PDF (watermarked copy)", p.WatermarkedFreePlanName(), "free_pdf_watermarked")
	appendEntry("Paid PDF", p.PaidPlanFile, "paid_pdf")
	appendEntry("Pro pack", p.ProPackFile, "pro_pack")
	appendEntry("Free 3D preview", p.Free3DImage, "free_3d_image")
	for _, img := range p.Images {
		appendEntry(fmt.Sprintf("Image #%d", img.ID), img.FilePath, "image")
	}
	return manifest
}

// FileRemover deletes a named file from storage. Satisfied by the storage
// collaborator; split out so hard deletion stays testable.
type FileRemover interface {
	Exists(name string) (bool, error)
	Delete(name string) error
}

// HardDelete permanently removes the plan row. Guards: the plan must already
// be soft-deleted, and no orders may reference it. The deletion log, audit
// entry, and row removal commit in one transaction; file cleanup runs after
// commit and never fails the deletion itself.
func (p *Plan) HardDelete(db *gorm.DB, files FileRemover, actor *User, reason string) (*PlanDeletionLog, error) {
	var orderCount, completedCount int64
	if err := db.Model(&Order{}).Where("plan_id = ?", p.ID).Count(&orderCount).Error; err != nil {
		return nil, err
	}
	if orderCount > 0 {
		if err := db.Model(&Order{}).
			Where("plan_id = ? AND payment_status = ?", p.ID, OrderStatusCompleted).
			Count(&completedCount).Error; err != nil {
			return nil, err
		}
		return nil, &IntegrityError{Message: fmt.Sprintf(
			"cannot hard delete plan %s: %d order(s) exist (%d completed)",
			p.Reference, orderCount, completedCount,
		)}
	}

	if !p.IsDeleted {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"plan %s must be soft deleted first, hard delete is only allowed for already soft-deleted plans",
			p.Reference,
		)}
	}

	manifest := p.FileManifest()
	metadata, err := json.Marshal(map[string]interface{}{
		"slug":        p.Slug,
		"category":    p.Category.Name,
		"files":       manifest,
		"total_files": len(manifest),
	})
	if err != nil {
		return nil, err
	}

	deletionLog := &PlanDeletionLog{
		PlanReference: p.Reference,
		PlanTitle:     p.Title,
		Reason:        reason,
		Metadata:      JSON(metadata),
	}
	if actor != nil {
		deletionLog.DeletedByID = &actor.ID
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(deletionLog).Error; err != nil {
			return err
		}
		if err := LogPlanAction(tx, p, AuditActionHardDeleted, actor,
			fmt.Sprintf("PERMANENT DELETION of %s", p.Reference), nil); err != nil {
			return err
		}
		if err := tx.Where("plan_id = ?", p.ID).Delete(&PlanImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("plan_id = ?", p.ID).Delete(&PlanSlugHistory{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&Plan{}, p.ID).Error
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, best-effort: cleanup failures are recorded on the
	// deletion log, never surfaced to the caller.
	if errs := removeManifestFiles(files, manifest); len(errs) > 0 {
		if payload, jsonErr := json.Marshal(errs); jsonErr == nil {
			db.Model(deletionLog).Update("file_errors", JSON(payload))
			deletionLog.FileErrors = JSON(payload)
		}
	}

	return deletionLog, nil
}

// FileCleanupError captures a single failed storage deletion.
type FileCleanupError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func removeManifestFiles(files FileRemover, manifest []FileManifestEntry) []FileCleanupError {
	if files == nil {
		return nil
	}
	var errs []FileCleanupError
	for _, entry := range manifest {
		exists, err := files.Exists(entry.Path)
		if err == nil && !exists {
			continue
		}
		if err := files.Delete(entry.Path); err != nil {
			errs = append(errs, FileCleanupError{Path: entry.Path, Error: err.Error()})
		}
	}
	return errs
}

// ---------- Counters ----------

// IncrementViewCount bumps the page-view counter without racing other requests.
func (p *Plan) IncrementViewCount(db *gorm.DB) error {
	return db.Model(p).UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
}

// IncrementDownloadCount bumps the free-preview download counter.
func (p *Plan) IncrementDownloadCount(db *gorm.DB) error {
	return db.Model(p).UpdateColumn("downloads_count", gorm.Expr("downloads_count + ?", 1)).Error
}

// ---------- Query scopes ----------

// ScopeActive filters out soft-deleted plans.
func ScopeActive(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// ScopeVisible filters to publicly visible plans.
func ScopeVisible(db *gorm.DB) *gorm.DB {
	return ScopeActive(db).Where("publish_status = ?", PlanStatusPublished)
}

// FindPlanBySlug finds an active plan by slug.
func FindPlanBySlug(db *gorm.DB, slug string) (*Plan, error) {
	var plan Plan
	err := ScopeActive(db.Model(&Plan{})).Where("slug = ?", slug).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
