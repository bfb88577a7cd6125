package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhaus/planhaus/app/models"
)

func TestDetectDevice(t *testing.T) {
	cases := map[string]string{
		"":           models.DeviceUnknown,
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/126.0": models.DeviceDesktop,
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)":                models.DeviceMobile,
		"Mozilla/5.0 (Linux; Android 14; Pixel 8)":                models.DeviceMobile,
		"Mozilla/5.0 (iPad; CPU OS 17_0)":                         models.DeviceTablet,
		"Googlebot/2.1 (+http://www.google.com/bot.html)":         models.DeviceBot,
		"curl/8.4.0":                                              models.DeviceBot,
	}
	for ua, want := range cases {
		assert.Equal(t, want, DetectDevice(ua), "ua: %q", ua)
	}
}

func TestFingerprintHidesInput(t *testing.T) {
	fp := Fingerprint("203.0.113.7", "Mozilla/5.0")
	assert.Len(t, fp, 32)
	assert.NotContains(t, fp, "203.0.113.7")

	// same inputs, same fingerprint within a day
	assert.Equal(t, fp, Fingerprint("203.0.113.7", "Mozilla/5.0"))
	// different visitor, different fingerprint
	assert.NotEqual(t, fp, Fingerprint("203.0.113.8", "Mozilla/5.0"))
}

func TestVisitRowCarriesNoVisitorData(t *testing.T) {
	app := fiber.New()
	var row *models.Visit
	app.Get("/*", func(c *fiber.Ctx) error {
		row = visitRow(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/plans/modern-villa", nil)
	req.Header.Set(fiber.HeaderUserAgent, "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)")
	req.Header.Set(fiber.HeaderReferer, "https://example.com/search?q=villa")
	req.Header.Set("CF-IPCountry", "de")
	_, err := app.Test(req)
	require.NoError(t, err)

	// path, device class, and country only; no referrer, no
	// fingerprint, nothing that links a visitor's page views
	require.NotNil(t, row)
	assert.Equal(t, &models.Visit{
		Path:        "/plans/modern-villa",
		Device:      models.DeviceMobile,
		CountryCode: "DE",
	}, row)
}

func TestTrackablePath(t *testing.T) {
	assert.True(t, trackablePath("/"))
	assert.True(t, trackablePath("/plans"))
	assert.True(t, trackablePath("/plans/modern-villa"))
	assert.False(t, trackablePath("/admin/orders"))
	assert.False(t, trackablePath("/download/abc"))
	assert.False(t, trackablePath("/robots.txt"))
	assert.False(t, trackablePath("/static/app.css"))
}
