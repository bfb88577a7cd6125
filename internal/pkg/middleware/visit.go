package middleware

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/blake2s"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/app/repository"
	"github.com/planhaus/planhaus/internal/pkg/cache"
	"github.com/planhaus/planhaus/internal/pkg/constants"
)

// visitThrottle is how long one fingerprint+path pair counts a single
// visit.
const visitThrottle = 30 * time.Minute

// VisitTracker records page views for the admin dashboard. It stores no
// raw IPs; visitors are throttled by a salted fingerprint. Recording is
// asynchronous and must never slow down or fail a request.
func VisitTracker(visits repository.VisitRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return err
		}
		path := c.Path()
		if !trackablePath(path) {
			return err
		}

		fingerprint := Fingerprint(c.IP(), c.Get(fiber.HeaderUserAgent))
		throttleKey := "visit:" + fingerprint + ":" + path
		fresh, cacheErr := cache.SetNX(throttleKey, "1", visitThrottle)
		if cacheErr != nil {
			log.Warnf("[Visit] throttle check failed: %v", cacheErr)
			return err
		}
		if !fresh {
			return err
		}

		visit := visitRow(c)
		go func() {
			if err := visits.Record(visit); err != nil {
				log.Errorf("[Visit] failed to record visit: %v", err)
			}
		}()
		return err
	}
}

// visitRow builds the row to persist. The fingerprint stays in the
// throttle key only; the stored row must not link one visitor's page
// views together, so it carries nothing beyond path, device class, and
// country.
func visitRow(c *fiber.Ctx) *models.Visit {
	return &models.Visit{
		Path:        c.Path(),
		Device:      DetectDevice(c.Get(fiber.HeaderUserAgent)),
		CountryCode: countryCode(c),
	}
}

// trackablePath excludes admin pages, assets, and machine endpoints.
func trackablePath(path string) bool {
	for _, prefix := range []string{
		constants.AdminRoute, "/static", constants.UploadsRoute, "/api", constants.DownloadRoute,
	} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	switch path {
	case "/robots.txt", "/sitemap.xml", "/favicon.ico":
		return false
	}
	return true
}

// Fingerprint hashes IP and user agent together with a day salt. The raw
// IP is never stored; the fingerprint rotates daily so visitors cannot
// be tracked across days.
func Fingerprint(ip, userAgent string) string {
	salt := time.Now().UTC().Format("2006-01-02")
	digest := blake2s.Sum256([]byte(salt + "|" + ip + "|" + userAgent))
	return hex.EncodeToString(digest[:16])
}

// DetectDevice classifies the user agent into a coarse device bucket.
func DetectDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return models.DeviceUnknown
	case strings.Contains(ua, "bot"), strings.Contains(ua, "crawler"),
		strings.Contains(ua, "spider"), strings.Contains(ua, "curl"):
		return models.DeviceBot
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		return models.DeviceTablet
	case strings.Contains(ua, "mobi"), strings.Contains(ua, "android"),
		strings.Contains(ua, "iphone"):
		return models.DeviceMobile
	default:
		return models.DeviceDesktop
	}
}

// countryCode reads the edge-provided country header when present.
func countryCode(c *fiber.Ctx) string {
	if code := c.Get("CF-IPCountry"); code != "" && code != "XX" {
		return strings.ToUpper(code)
	}
	if code := c.Get("X-Country-Code"); code != "" {
		return strings.ToUpper(code)
	}
	return ""
}
