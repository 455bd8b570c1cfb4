package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sarwanshoes/store-backend/internal/catalog"
	"github.com/sarwanshoes/store-backend/internal/storage"
)

// OrderHandler serves the persisted orders and the product catalog to the
// admin frontend
type OrderHandler struct {
	store   storage.Store
	catalog *catalog.Catalog
}

// NewOrderHandler creates an order handler
func NewOrderHandler(store storage.Store, cat *catalog.Catalog) *OrderHandler {
	return &OrderHandler{store: store, catalog: cat}
}

// HandleListOrders returns all persisted orders, newest first
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.store.GetOrders()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"total":   len(orders),
		"data":    orders,
	})
}

// HandleListProducts returns the enhanced catalog snapshot
func (h *OrderHandler) HandleListProducts(c *fiber.Ctx) error {
	products := h.catalog.Products()
	return c.JSON(fiber.Map{
		"success": true,
		"total":   len(products),
		"data":    products,
	})
}
