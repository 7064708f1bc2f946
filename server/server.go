package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/sirupsen/logrus"
	"go-subscout/config"
	"go-subscout/database"
	"go-subscout/plugin"
)

// New prepares the fiber app serving pm.
func New(pm *plugin.Manager, allowedOrigins []string) *fiber.App {
	h := Handler{pm: pm}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Accept"},
		AllowOrigins: allowedOrigins,
	}))

	// Define routes
	app.Post("/scan", h.StartScanHandler)
	app.Get("/scan", h.ScanStatusHandler)
	app.Post("/stop", h.StopHandler)
	app.Get("/settings", h.SettingsHandler)
	app.Get("/export/:format", h.ExportHandler)

	return app
}

// Start opens the settings database and serves the API until the listener fails.
func Start(cfg *config.Config, opts ...plugin.Option) error {
	// Initiate database
	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	opts = append([]plugin.Option{
		plugin.WithEndpoints(cfg.Endpoints),
		plugin.WithUserAgent(cfg.UserAgent),
	}, opts...)

	app := New(plugin.NewManager(db, opts...), cfg.AllowedOrigins)

	logrus.Infof("Backend server started on %s", cfg.Listen)
	return app.Listen(cfg.Listen)
}
