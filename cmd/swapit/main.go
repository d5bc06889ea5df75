package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"swapit/internal/config"
	"swapit/internal/http/handlers"
	applog "swapit/internal/log"
	"swapit/internal/oidc"
	"swapit/internal/repos"
	"swapit/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring; federated sign-in only when a client id is configured
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	if cfg.OIDCClientID != "" {
		jwks := oidc.NewJWKSCache(cfg.OIDCJWKSURL, nil, 0)
		authSvc.Tokens = oidc.NewVerifier(cfg.OIDCIssuer, cfg.OIDCClientID, jwks)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc)

	// Action-keyed endpoint (login/signup throttled harder)
	authLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: 10 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			a := c.FormValue("action")
			return a != "login" && a != "signup" && a != "google_signin"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "message": "Too many attempts. Please try again later.",
			})
		},
	})
	app.Post("/api/auth", authLimiter, deps.Api.Dispatch)
	app.Get("/api/auth", deps.Api.Dispatch)

	// Read side for the browse view and dashboard
	api := app.Group("/api/v1")
	api.Get("/listings", deps.Listings.List)
	api.Get("/listings/mine", handlers.RequireUser(authSvc), deps.Listings.Mine)
	api.Get("/categories", deps.Listings.Categories)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
