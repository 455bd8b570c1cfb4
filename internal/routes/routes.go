package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/sarwanshoes/store-backend/internal/catalog"
	"github.com/sarwanshoes/store-backend/internal/handlers"
	"github.com/sarwanshoes/store-backend/internal/middleware"
	"github.com/sarwanshoes/store-backend/internal/services"
	"github.com/sarwanshoes/store-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, cat *catalog.Catalog, flow *services.FlowService) {
	webhookHandler := handlers.NewWebhookHandler(flow)
	orderHandler := handlers.NewOrderHandler(store, cat)

	// ========== WEBHOOK ROUTES ==========
	// Cloud API subscription handshake
	app.Get("/webhook", webhookHandler.HandleVerify)

	// Inbound events - ENVIRONMENT-AWARE VALIDATION
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: Skip validation for ngrok
		app.Post("/webhook", webhookHandler.HandleWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			println("⚠️  WhatsApp webhook validation DISABLED for development")
		}
	} else {
		// Production: Validate webhook signature
		app.Post("/webhook", middleware.ValidateMetaSignature(), webhookHandler.HandleWebhook)
	}

	// ========== ORDER & CATALOG ROUTES ==========
	app.Get("/orders", orderHandler.HandleListOrders)

	api := app.Group("/api")
	api.Get("/products", orderHandler.HandleListProducts)

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/whatsapp", webhookHandler.HandleTestWebhook)
}
