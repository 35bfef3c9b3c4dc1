package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"salepoint/internal/http/handlers"
	"salepoint/internal/repos"
	"salepoint/internal/services"
)

// Manager-only areas bounce cashiers to the dashboard and anonymous
// visitors to login.
func TestRequireManager(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	// Bind sessions straight in the store; login flow is covered elsewhere.
	if err := userRepo.BindSession("sid-manager", "u-maria"); err != nil {
		t.Fatal(err)
	}
	if err := userRepo.BindSession("sid-cashier", "u-carlos"); err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	app.Get("/products", handlers.RequireManager(authSvc), func(c *fiber.Ctx) error {
		return c.SendString("catalog")
	})

	get := func(sid string) *http.Response {
		req := httptest.NewRequest("GET", "/products", nil)
		if sid != "" {
			req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := get(""); resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("anonymous: want redirect to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if resp := get("sid-cashier"); resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("cashier: want redirect to /dashboard, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if resp := get("sid-manager"); resp.StatusCode != http.StatusOK {
		t.Fatalf("manager: want 200, got %d", resp.StatusCode)
	}
}
