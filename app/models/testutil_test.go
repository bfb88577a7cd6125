package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full schema so model
// hooks and transactions run against real SQL.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&User{},
		&Category{},
		&Plan{},
		&PlanImage{},
		&PlanReferenceSequence{},
		&PlanSlugHistory{},
		&PlanAuditLog{},
		&PlanDeletionLog{},
		&Order{},
		&EmailLog{},
		&Visit{},
		&Logo{},
		&Slide{},
		&Page{},
		&Redirect{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createTestCategory(t *testing.T, db *gorm.DB) *Category {
	t.Helper()
	cat := &Category{Name: "Modern Villas", IsActive: true}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func createTestPlan(t *testing.T, db *gorm.DB, title string) *Plan {
	t.Helper()
	cat := createTestCategory(t, db)
	plan := &Plan{
		Title:      title,
		CategoryID: cat.ID,
		PlanType:   PlanTypeResidential,
		Bedrooms:   3,
		Floors:     2,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func createTestAdmin(t *testing.T, db *gorm.DB) *User {
	t.Helper()
	user, err := CreateUser("Admin", "admin@example.com", "s3cret-pass", ROLE_ADMIN)
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)
	return user
}
