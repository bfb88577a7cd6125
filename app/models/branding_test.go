package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoActivateDeactivatesSiblings(t *testing.T) {
	db := setupTestDB(t)

	first := &Logo{LogoType: LogoTypeHeader, FilePath: "logos/a.png"}
	second := &Logo{LogoType: LogoTypeHeader, FilePath: "logos/b.png"}
	favicon := &Logo{LogoType: LogoTypeFavicon, FilePath: "logos/fav.ico"}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)
	require.NoError(t, db.Create(favicon).Error)

	require.NoError(t, first.Activate(db))
	require.NoError(t, favicon.Activate(db))
	require.NoError(t, second.Activate(db))

	var reloadedFirst Logo
	require.NoError(t, db.First(&reloadedFirst, first.ID).Error)
	assert.False(t, reloadedFirst.IsActive)

	active, err := GetActiveLogo(db, LogoTypeHeader)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	// the favicon slot is untouched by header activations
	activeFav, err := GetActiveLogo(db, LogoTypeFavicon)
	require.NoError(t, err)
	require.NotNil(t, activeFav)
	assert.Equal(t, favicon.ID, activeFav.ID)
}

func TestGetActiveLogoMissingReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	logo, err := GetActiveLogo(db, LogoTypeFooter)
	require.NoError(t, err)
	assert.Nil(t, logo)
}

func TestSlideSoftDeleteAndOrder(t *testing.T) {
	db := setupTestDB(t)

	a := &Slide{Title: "Spring Sale", DisplayOrder: 2, IsActive: true}
	b := &Slide{Title: "New Arrivals", DisplayOrder: 1, IsActive: true}
	c := &Slide{Title: "Retired", DisplayOrder: 0, IsActive: true}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(b).Error)
	require.NoError(t, db.Create(c).Error)

	require.NoError(t, c.SoftDelete(db))

	slides, err := GetActiveSlides(db)
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "New Arrivals", slides[0].Title)
	assert.Equal(t, "Spring Sale", slides[1].Title)

	require.NoError(t, c.Restore(db))
	assert.False(t, c.IsDeleted)
	// restored slides come back inactive
	slides, err = GetActiveSlides(db)
	require.NoError(t, err)
	assert.Len(t, slides, 2)
}
