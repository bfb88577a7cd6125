// Package statistics serves the admin dashboard numbers. Values are
// read through a short-lived Redis cache so dashboard refreshes do not
// hammer the database, and no counts live in process memory.
package statistics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/cache"
	"github.com/planhaus/planhaus/internal/pkg/database"
)

const (
	CacheKeyPlansVisible  = "statistics:plans:visible"
	CacheKeyOrdersPending = "statistics:orders:pending"
	CacheKeyOrdersTotal   = "statistics:orders:total"
	CacheKeyVisitsToday   = "statistics:visits:daily:%s" // date YYYY-MM-DD
	CacheExpiration       = 5 * time.Minute
)

// DashboardData holds the headline numbers for the admin dashboard.
type DashboardData struct {
	VisiblePlans  int64
	PendingOrders int64
	TotalOrders   int64
	VisitsToday   int64
}

// GetDashboardData returns the dashboard numbers, cached.
func GetDashboardData() DashboardData {
	return DashboardData{
		VisiblePlans:  cachedCount(CacheKeyPlansVisible, countVisiblePlans),
		PendingOrders: cachedCount(CacheKeyOrdersPending, countPendingOrders),
		TotalOrders:   cachedCount(CacheKeyOrdersTotal, countTotalOrders),
		VisitsToday:   cachedCount(visitsTodayKey(), countVisitsToday),
	}
}

// Invalidate drops the cached order counts. Called after order state
// changes so the dashboard reflects them promptly.
func Invalidate() {
	for _, key := range []string{CacheKeyOrdersPending, CacheKeyOrdersTotal, CacheKeyPlansVisible} {
		if err := cache.Delete(key); err != nil {
			log.Warnf("[Statistics] failed to invalidate %s: %v", key, err)
		}
	}
}

func visitsTodayKey() string {
	return fmt.Sprintf(CacheKeyVisitsToday, time.Now().UTC().Format("2006-01-02"))
}

// cachedCount reads a counter through the cache, falling back to the
// database loader on miss.
func cachedCount(key string, load func() (int64, error)) int64 {
	if value, err := cache.Get(key); err == nil {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}

	n, err := load()
	if err != nil {
		log.Errorf("[Statistics] failed to load %s: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(n, 10), CacheExpiration); err != nil {
		log.Warnf("[Statistics] failed to cache %s: %v", key, err)
	}
	return n
}

func countVisiblePlans() (int64, error) {
	var count int64
	err := models.ScopeVisible(database.GetDB().Model(&models.Plan{})).Count(&count).Error
	return count, err
}

func countPendingOrders() (int64, error) {
	var count int64
	err := database.GetDB().Model(&models.Order{}).
		Where("payment_status = ?", models.OrderStatusPending).
		Count(&count).Error
	return count, err
}

func countTotalOrders() (int64, error) {
	var count int64
	err := database.GetDB().Model(&models.Order{}).Count(&count).Error
	return count, err
}

func countVisitsToday() (int64, error) {
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	return models.CountVisitsSince(database.GetDB(), midnight)
}
