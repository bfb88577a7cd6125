package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/planhaus/planhaus/app/repository"
	"github.com/planhaus/planhaus/internal/pkg/cache"
	"github.com/planhaus/planhaus/internal/pkg/database"
	"github.com/planhaus/planhaus/internal/pkg/env"
	"github.com/planhaus/planhaus/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// Find the project root whether we run from the root or from cmd/
	basePaths := []string{
		"./",
		"../../",
		"../../../",
	}
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}
	if basePath == "" {
		panic("Could not find project root directory")
	}

	app := fiber.New(fiber.Config{
		Views:     html.New(basePath+"views", ".html"),
		BodyLimit: 50 * 1024 * 1024, // plan archives and receipts
	})

	if _, err := os.Stat(basePath + "public/assets/icons/favicon.ico"); err == nil {
		app.Use(favicon.New(favicon.Config{
			File:         basePath + "public/assets/icons/favicon.ico",
			URL:          "/favicon.ico",
			CacheControl: "public, max-age=604800",
		}))
	}

	app.Use(recover.New(), logger.New())

	app.Get("/metrics", monitor.New())

	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// Only gallery images and branding assets are public. Plan
	// documents and receipts live elsewhere under uploads/ and are
	// served exclusively through the token-checked handlers.
	app.Static("/uploads/plans/images", basePath+"uploads/plans/images", fiber.Static{
		CacheDuration: 10 * time.Second,
		MaxAge:        604800, // 7 days
	})
	app.Static("/uploads/branding", basePath+"uploads/branding", fiber.Static{
		CacheDuration: 10 * time.Second,
		MaxAge:        604800,
	})

	router.InstallRouter(app)

	return app
}
