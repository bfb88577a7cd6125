package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/statistics"
)

// HandleAdminDashboard renders the dashboard: headline counters, recent
// orders, and visit analytics.
func HandleAdminDashboard(c *fiber.Ctx) error {
	dashboard := statistics.GetDashboardData()

	recentOrders, err := repos.Order.List(0, 10)
	if err != nil {
		log.Errorf("[Admin] failed to load recent orders: %v", err)
	}

	since := time.Now().AddDate(0, 0, -30)
	revenue, err := repos.Order.RevenueSince(since)
	if err != nil {
		log.Errorf("[Admin] failed to load revenue: %v", err)
	}
	topPaths, err := repos.Visit.TopPaths(since, 10)
	if err != nil {
		log.Errorf("[Admin] failed to load top paths: %v", err)
	}
	devices, err := repos.Visit.CountByDevice(since)
	if err != nil {
		log.Errorf("[Admin] failed to load device split: %v", err)
	}
	countries, err := repos.Visit.CountByCountry(since, 10)
	if err != nil {
		log.Errorf("[Admin] failed to load country split: %v", err)
	}

	return c.Render("admin/dashboard", viewData(c, "Admin Dashboard", fiber.Map{
		"Dashboard":    dashboard,
		"RecentOrders": recentOrders,
		"Revenue30d":   revenue.StringFixed(2),
		"TopPaths":     topPaths,
		"Devices":      devices,
		"Countries":    countries,
	}), "layouts/admin")
}

// HandleAdminEmailLog lists the outbound notification log.
func HandleAdminEmailLog(c *fiber.Ctx) error {
	page := pageParam(c)
	status := c.Query("status")

	var entries []models.EmailLog
	var err error
	if status != "" {
		entries, err = repos.EmailLog.ListByStatus(status, (page-1)*50, 50)
	} else {
		entries, err = repos.EmailLog.List((page-1)*50, 50)
	}
	if err != nil {
		log.Errorf("[Admin] failed to load email log: %v", err)
	}
	total, err := repos.EmailLog.Count()
	if err != nil {
		log.Errorf("[Admin] failed to count email log: %v", err)
	}

	return c.Render("admin/email_log", viewData(c, "Email Log", fiber.Map{
		"Entries":    entries,
		"Status":     status,
		"Page":       page,
		"TotalPages": totalPages(total, 50),
	}), "layouts/admin")
}
