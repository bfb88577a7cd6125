package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqmToSqftConversion(t *testing.T) {
	sqft := SqmToSqft(decimal.RequireFromString("120.00"))
	assert.Equal(t, "1291.67", sqft.StringFixed(2))

	sqm := SqftToSqm(decimal.RequireFromString("1291.67"))
	assert.Equal(t, "120.00", sqm.StringFixed(2))
}

func TestSqmToSqftRoundsHalfUp(t *testing.T) {
	// 0.5 at the third decimal must round up, not to even
	sqft := SqmToSqft(decimal.RequireFromString("0.25"))
	assert.Equal(t, "2.69", sqft.StringFixed(2))
}

func TestPlanAreaSyncOnCreate(t *testing.T) {
	db := setupTestDB(t)
	cat := createTestCategory(t, db)

	plan := &Plan{
		Title:        "Lakeside Cottage",
		CategoryID:   cat.ID,
		TotalAreaSqm: decimal.RequireFromString("120"),
	}
	require.NoError(t, db.Create(plan).Error)

	assert.Equal(t, "1291.67", plan.TotalAreaSqft.StringFixed(2))
}

func TestPlanAreaSyncFollowsEditedSide(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Hillside Duplex")

	plan.TotalAreaSqm = decimal.RequireFromString("200")
	plan.AreaLastEdited = "sqm"
	require.NoError(t, db.Save(plan).Error)
	assert.Equal(t, "2152.78", plan.TotalAreaSqft.StringFixed(2))

	plan.TotalAreaSqft = decimal.RequireFromString("1000")
	plan.AreaLastEdited = "sqft"
	require.NoError(t, db.Save(plan).Error)
	assert.Equal(t, "92.90", plan.TotalAreaSqm.StringFixed(2))
}

func TestPlanSlugDerivedFromTitle(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Modern 3-Bedroom Villa!")
	assert.Equal(t, "modern-3-bedroom-villa", plan.Slug)
}

func TestPlanReferenceAssignedAndImmutable(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Courtyard House")

	year := time.Now().Year()
	expectedPrefix := fmt.Sprintf("%s-%d-", ReferencePrefix, year)
	assert.Contains(t, plan.Reference, expectedPrefix)

	original := plan.Reference
	plan.Reference = "PH-1999-0001"
	require.NoError(t, db.Save(plan).Error)
	assert.Equal(t, original, plan.Reference)

	var reloaded Plan
	require.NoError(t, db.First(&reloaded, plan.ID).Error)
	assert.Equal(t, original, reloaded.Reference)
}

func TestPlanSlugChangeRecordsHistory(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Garden Bungalow")
	oldSlug := plan.Slug

	plan.Title = "Garden Bungalow Deluxe"
	plan.Slug = ""
	require.NoError(t, db.Save(plan).Error)
	assert.Equal(t, "garden-bungalow-deluxe", plan.Slug)

	found, err := FindPlanByHistoricalSlug(db, oldSlug)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, plan.ID, found.ID)
}

func TestPlanPublishLifecycle(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Atrium House")
	admin := createTestAdmin(t, db)

	assert.True(t, plan.IsDraft())
	assert.False(t, plan.IsVisible())

	require.NoError(t, plan.Publish(db, admin, ""))
	assert.True(t, plan.IsVisible())
	require.NotNil(t, plan.PublishedAt)

	// publishing again is a no-op
	firstPublished := *plan.PublishedAt
	require.NoError(t, plan.Publish(db, admin, ""))
	assert.Equal(t, firstPublished, *plan.PublishedAt)

	require.NoError(t, plan.Unpublish(db, admin, "pricing under review"))
	assert.False(t, plan.IsVisible())
	assert.Equal(t, "pricing under review", plan.UnpublishedReason)
	require.NotNil(t, plan.UnpublishedByID)
	assert.Equal(t, admin.ID, *plan.UnpublishedByID)

	// re-publish clears the unpublish metadata
	require.NoError(t, plan.Publish(db, admin, ""))
	assert.Nil(t, plan.UnpublishedAt)
	assert.Empty(t, plan.UnpublishedReason)
}

func TestPlanPublishRefusedWhileDeleted(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Terrace House")
	admin := createTestAdmin(t, db)

	require.NoError(t, plan.SoftDelete(db, admin, "duplicate upload"))
	assert.Equal(t, PlanStatusUnpublished, plan.PublishStatus)

	var verr *ValidationError
	err := plan.Publish(db, admin, "")
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))

	err = plan.MarkDraft(db, admin, "")
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))
}

func TestPlanRestoreStaysUnpublished(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Split Level Home")
	admin := createTestAdmin(t, db)

	require.NoError(t, plan.Publish(db, admin, ""))
	require.NoError(t, plan.SoftDelete(db, admin, ""))
	require.NoError(t, plan.Restore(db, admin))

	assert.False(t, plan.IsDeleted)
	assert.Equal(t, PlanStatusUnpublished, plan.PublishStatus)
}

func TestPlanAuditTrailRecordsLifecycle(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Beach House")
	admin := createTestAdmin(t, db)

	require.NoError(t, plan.Publish(db, admin, ""))
	require.NoError(t, plan.Unpublish(db, admin, "seasonal"))
	require.NoError(t, plan.SoftDelete(db, admin, "retired"))
	require.NoError(t, plan.Restore(db, admin))

	trail, err := GetPlanAuditTrail(db, plan.ID)
	require.NoError(t, err)
	require.Len(t, trail, 4)

	actions := make([]string, 0, len(trail))
	for _, entry := range trail {
		actions = append(actions, entry.Action)
	}
	assert.Contains(t, actions, AuditActionPublished)
	assert.Contains(t, actions, AuditActionUnpublished)
	assert.Contains(t, actions, AuditActionSoftDeleted)
	assert.Contains(t, actions, AuditActionRestored)
}

type fakeRemover struct {
	deleted []string
	failOn  map[string]error
}

func (f *fakeRemover) Exists(name string) (bool, error) { return true, nil }

func (f *fakeRemover) Delete(name string) error {
	if err, ok := f.failOn[name]; ok {
		return err
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func TestPlanHardDeleteRequiresSoftDelete(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Forest Cabin")
	admin := createTestAdmin(t, db)

	var verr *ValidationError
	_, err := plan.HardDelete(db, &fakeRemover{}, admin, "cleanup")
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))
}

func TestPlanHardDeleteBlockedByOrders(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "City Loft")
	admin := createTestAdmin(t, db)

	price := decimal.RequireFromString("49.00")
	plan.Price = &price
	require.NoError(t, db.Save(plan).Error)

	order := NewOrder(plan, "buyer@example.com", "Buyer", PaymentMethodBank, "receipts/r1.jpg")
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, order.ApprovePayment(db, admin, "ok"))

	require.NoError(t, plan.SoftDelete(db, admin, ""))

	var ierr *IntegrityError
	_, err := plan.HardDelete(db, &fakeRemover{}, admin, "cleanup")
	require.Error(t, err)
	require.True(t, errors.As(err, &ierr))
	assert.Contains(t, ierr.Error(), "1 order(s) exist")
	assert.Contains(t, ierr.Error(), "1 completed")

	// the row must survive
	var count int64
	require.NoError(t, db.Model(&Plan{}).Where("id = ?", plan.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPlanHardDeleteRemovesRowAndFiles(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Prairie Ranch")
	admin := createTestAdmin(t, db)

	plan.FreePlanFile = "plans/free/prairie.pdf"
	plan.PaidPlanFile = "plans/paid/prairie.pdf"
	require.NoError(t, db.Save(plan).Error)

	require.NoError(t, db.Create(&PlanImage{PlanID: plan.ID, FilePath: "plans/images/p1.jpg"}).Error)
	require.NoError(t, db.Preload("Images").First(plan, plan.ID).Error)

	require.NoError(t, plan.SoftDelete(db, admin, ""))

	remover := &fakeRemover{}
	deletionLog, err := plan.HardDelete(db, remover, admin, "obsolete design")
	require.NoError(t, err)
	require.NotNil(t, deletionLog)
	assert.Equal(t, plan.Reference, deletionLog.PlanReference)
	assert.Equal(t, "obsolete design", deletionLog.Reason)

	var count int64
	require.NoError(t, db.Model(&Plan{}).Where("id = ?", plan.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&PlanImage{}).Where("plan_id = ?", plan.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	assert.Contains(t, remover.deleted, "plans/free/prairie.pdf")
	assert.Contains(t, remover.deleted, "plans/free/prairie_watermarked.pdf")
	assert.Contains(t, remover.deleted, "plans/paid/prairie.pdf")
	assert.Contains(t, remover.deleted, "plans/images/p1.jpg")
}

func TestPlanHardDeleteRecordsFileErrors(t *testing.T) {
	db := setupTestDB(t)
	plan := createTestPlan(t, db, "Canyon Retreat")
	admin := createTestAdmin(t, db)

	plan.FreePlanFile = "plans/free/canyon.pdf"
	require.NoError(t, db.Save(plan).Error)
	require.NoError(t, plan.SoftDelete(db, admin, ""))

	remover := &fakeRemover{failOn: map[string]error{
		"plans/free/canyon.pdf": errors.New("permission denied"),
	}}
	deletionLog, err := plan.HardDelete(db, remover, admin, "")
	require.NoError(t, err)
	assert.Contains(t, string(deletionLog.FileErrors), "permission denied")
}

func TestWatermarkedFreePlanName(t *testing.T) {
	plan := &Plan{FreePlanFile: "plans/free/atrium.pdf"}
	assert.Equal(t, "plans/free/atrium_watermarked.pdf", plan.WatermarkedFreePlanName())

	empty := &Plan{}
	assert.Empty(t, empty.WatermarkedFreePlanName())
}

func TestPlanSeoFallbacks(t *testing.T) {
	plan := &Plan{
		Title:     "Orchard House",
		Reference: "PH-2026-0042",
		Bedrooms:  4,
	}
	assert.Equal(t, "Orchard House House Plan | PH-2026-0042 | planhaus.example", plan.SeoTitleValue("planhaus.example"))

	plan.SeoTitle = "Custom Title"
	assert.Equal(t, "Custom Title", plan.SeoTitleValue("planhaus.example"))

	assert.Contains(t, plan.SeoKeywordsValue(), "4 bedroom house plan")
}

func TestPrimaryImageFallsBackToFirst(t *testing.T) {
	plan := &Plan{Images: []PlanImage{
		{ID: 1, FilePath: "a.jpg"},
		{ID: 2, FilePath: "b.jpg"},
	}}
	require.NotNil(t, plan.PrimaryImage())
	assert.EqualValues(t, 1, plan.PrimaryImage().ID)

	plan.Images[1].IsPrimary = true
	assert.EqualValues(t, 2, plan.PrimaryImage().ID)
	assert.Len(t, plan.GalleryImages(), 1)
}
