package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"salepoint/internal/config"
	"salepoint/internal/http/handlers"
	applog "salepoint/internal/log"
	"salepoint/internal/repos"
	"salepoint/internal/services"
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

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("userID", u.ID)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db)

	// Login (throttled)
	app.Get("/", authH.LoginForm)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Dashboard
	app.Get("/dashboard", handlers.RequireUser(authSvc), deps.DashboardHandler.Show)

	// Catalog & suppliers (manager only)
	catalog := app.Group("/products", handlers.RequireManager(authSvc))
	catalog.Get("/", deps.ProductHandler.List)
	catalog.Get("/add", deps.ProductHandler.AddForm)
	catalog.Post("/add", deps.ProductHandler.Add)
	catalog.Get("/edit/:id", deps.ProductHandler.EditForm)
	catalog.Post("/edit/:id", deps.ProductHandler.Edit)
	catalog.Post("/delete/:id", deps.ProductHandler.Delete)

	suppliers := app.Group("/suppliers", handlers.RequireManager(authSvc))
	suppliers.Get("/", deps.SupplierHandler.List)
	suppliers.Get("/add", deps.SupplierHandler.AddForm)
	suppliers.Post("/add", deps.SupplierHandler.Add)
	suppliers.Get("/edit/:id", deps.SupplierHandler.EditForm)
	suppliers.Post("/edit/:id", deps.SupplierHandler.Edit)
	suppliers.Post("/delete/:id", deps.SupplierHandler.Delete)

	// Sales (any logged-in role)
	sales := app.Group("/sales", handlers.RequireUser(authSvc))
	sales.Get("/", deps.SaleHandler.List)
	sales.Post("/new", deps.SaleHandler.New)
	sales.Get("/add-item/:id", deps.SaleHandler.AddItemForm)
	sales.Post("/add-item/:id", deps.SaleHandler.AddItem)
	sales.Post("/item/increase/:sale/:product", deps.SaleHandler.Increase)
	sales.Post("/item/decrease/:sale/:product", deps.SaleHandler.Decrease)
	sales.Post("/item/remove/:sale/:product", deps.SaleHandler.Remove)
	sales.Get("/view/:id", deps.SaleHandler.View)
	sales.Get("/reports", deps.ReportHandler.SalesReport)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
