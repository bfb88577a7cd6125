package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planhaus/planhaus/app/models"
)

func setupTestRepos(t *testing.T) (*Repositories, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Plan{},
		&models.PlanImage{},
		&models.PlanReferenceSequence{},
		&models.PlanSlugHistory{},
		&models.PlanAuditLog{},
		&models.PlanDeletionLog{},
		&models.Order{},
		&models.EmailLog{},
		&models.Visit{},
		&models.Logo{},
		&models.Slide{},
		&models.Page{},
		&models.Redirect{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return NewRepositories(db), db
}

func seedPlan(t *testing.T, repos *Repositories, db *gorm.DB, title string, category *models.Category, publish bool) *models.Plan {
	t.Helper()
	plan := &models.Plan{
		Title:      title,
		CategoryID: category.ID,
		PlanType:   models.PlanTypeResidential,
		Bedrooms:   3,
		Floors:     1,
	}
	require.NoError(t, repos.Plan.Create(plan))
	if publish {
		require.NoError(t, plan.Publish(db, nil, ""))
	}
	return plan
}

func seedCategory(t *testing.T, repos *Repositories, name string) *models.Category {
	t.Helper()
	cat := &models.Category{Name: name, IsActive: true}
	require.NoError(t, repos.Category.Create(cat))
	return cat
}

func TestPlanRepositoryVisibility(t *testing.T) {
	repos, db := setupTestRepos(t)
	cat := seedCategory(t, repos, "Modern")

	seedPlan(t, repos, db, "Published One", cat, true)
	seedPlan(t, repos, db, "Draft One", cat, false)
	deleted := seedPlan(t, repos, db, "Deleted One", cat, true)
	require.NoError(t, deleted.SoftDelete(db, nil, ""))

	plans, err := repos.Plan.ListVisible(PlanFilter{}, 0, 20)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Published One", plans[0].Title)

	count, err := repos.Plan.CountVisible(PlanFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	adminCount, err := repos.Plan.CountAdmin(true)
	require.NoError(t, err)
	assert.EqualValues(t, 3, adminCount)
}

func TestPlanRepositoryFilters(t *testing.T) {
	repos, db := setupTestRepos(t)
	modern := seedCategory(t, repos, "Modern")
	classic := seedCategory(t, repos, "Classic")

	a := seedPlan(t, repos, db, "Two Bed Modern", modern, true)
	a.Bedrooms = 2
	a.TotalAreaSqm = decimal.RequireFromString("90")
	require.NoError(t, repos.Plan.Update(a))

	b := seedPlan(t, repos, db, "Four Bed Classic", classic, true)
	b.Bedrooms = 4
	b.TotalAreaSqm = decimal.RequireFromString("220")
	require.NoError(t, repos.Plan.Update(b))

	plans, err := repos.Plan.ListVisible(PlanFilter{CategorySlug: "classic"}, 0, 20)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Four Bed Classic", plans[0].Title)

	plans, err = repos.Plan.ListVisible(PlanFilter{Bedrooms: 2}, 0, 20)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Two Bed Modern", plans[0].Title)

	plans, err = repos.Plan.ListVisible(PlanFilter{
		MinAreaSqm: decimal.RequireFromString("100"),
		MaxAreaSqm: decimal.RequireFromString("300"),
	}, 0, 20)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Four Bed Classic", plans[0].Title)

	plans, err = repos.Plan.ListVisible(PlanFilter{Query: "Modern"}, 0, 20)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	// swapped bounds are read as the intended range, not an empty one
	plans, err = repos.Plan.ListVisible(PlanFilter{
		MinAreaSqm: decimal.RequireFromString("300"),
		MaxAreaSqm: decimal.RequireFromString("100"),
	}, 0, 20)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Four Bed Classic", plans[0].Title)
}

func TestPlanFilterIsEmpty(t *testing.T) {
	assert.True(t, PlanFilter{}.IsEmpty())
	assert.False(t, PlanFilter{Bedrooms: 3}.IsEmpty())
	assert.False(t, PlanFilter{Query: "villa"}.IsEmpty())
	assert.False(t, PlanFilter{MinAreaSqm: decimal.RequireFromString("50")}.IsEmpty())
}

func TestOrderRepositoryRevenue(t *testing.T) {
	repos, db := setupTestRepos(t)
	cat := seedCategory(t, repos, "Modern")
	plan := seedPlan(t, repos, db, "Revenue Plan", cat, true)

	price := decimal.RequireFromString("50.00")
	plan.Price = &price
	require.NoError(t, repos.Plan.Update(plan))

	for i := 0; i < 3; i++ {
		order := models.NewOrder(plan, "buyer@example.com", "Buyer", models.PaymentMethodBank, "")
		require.NoError(t, repos.Order.Create(order))
		if i < 2 {
			require.NoError(t, order.ApprovePayment(db, nil, ""))
		}
	}

	total, err := repos.Order.RevenueSince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "100.00", total.StringFixed(2))

	pending, err := repos.Order.CountByStatus(models.OrderStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)
}

func TestVisitRepositoryAggregates(t *testing.T) {
	repos, _ := setupTestRepos(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Visit.Record(&models.Visit{
			Path: "/plans", Device: models.DeviceMobile, CountryCode: "DE",
		}))
	}
	require.NoError(t, repos.Visit.Record(&models.Visit{
		Path: "/", Device: models.DeviceDesktop, CountryCode: "US",
	}))

	since := time.Now().Add(-time.Minute)

	count, err := repos.Visit.CountSince(since)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	top, err := repos.Visit.TopPaths(since, 5)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, "/plans", top[0].Path)
	assert.EqualValues(t, 3, top[0].Count)

	devices, err := repos.Visit.CountByDevice(since)
	require.NoError(t, err)
	assert.EqualValues(t, 3, devices[models.DeviceMobile])
	assert.EqualValues(t, 1, devices[models.DeviceDesktop])
}

func TestRedirectRepository(t *testing.T) {
	repos, _ := setupTestRepos(t)

	require.NoError(t, repos.Redirect.Create(&models.Redirect{
		OldPath: "/old-plans", NewPath: "/plans", StatusCode: 301, IsActive: true,
	}))

	r, err := repos.Redirect.FindByPath("/old-plans")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "/plans", r.NewPath)

	require.NoError(t, repos.Redirect.RecordHit(r))

	missing, err := repos.Redirect.FindByPath("/nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
