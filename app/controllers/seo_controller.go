package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/repository"
)

// HandleSitemap emits the XML sitemap: static pages, visible plans, and
// active content pages.
func HandleSitemap(c *fiber.Ctx) error {
	domain := publicDomain()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

	writeURL := func(path, changefreq string, priority string) {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s%s</loc>\n", domain, path)
		fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n", changefreq)
		fmt.Fprintf(&b, "    <priority>%s</priority>\n", priority)
		b.WriteString("  </url>\n")
	}

	writeURL("/", "daily", "1.0")
	writeURL("/plans", "daily", "0.9")

	plans, err := repos.Plan.ListVisible(repository.PlanFilter{}, 0, 5000)
	if err != nil {
		log.Errorf("[Sitemap] failed to list plans: %v", err)
	}
	for _, plan := range plans {
		writeURL("/plans/"+plan.Slug, "weekly", "0.8")
	}

	categories, err := repos.Category.GetActive()
	if err != nil {
		log.Errorf("[Sitemap] failed to list categories: %v", err)
	}
	for _, cat := range categories {
		writeURL("/plans?category="+cat.Slug, "weekly", "0.6")
	}

	pages, err := repos.Page.GetFooter()
	if err != nil {
		log.Errorf("[Sitemap] failed to list pages: %v", err)
	}
	for _, page := range pages {
		writeURL("/page/"+page.Slug, "monthly", "0.4")
	}

	b.WriteString("</urlset>\n")

	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.SendString(b.String())
}

// HandleRobots emits robots.txt. Admin, checkout, and gated downloads
// are excluded from crawling.
func HandleRobots(c *fiber.Ctx) error {
	body := fmt.Sprintf(`User-agent: *
Disallow: /admin/
Disallow: /download/
Disallow: /orders/
Disallow: /login

Sitemap: %s/sitemap.xml
`, publicDomain())

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(body)
}
