package storage

import (
	"sync"

	"github.com/sarwanshoes/store-backend/internal/models"
)

var (
	storeInstance Store
	storeMu       sync.RWMutex
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return storeInstance
}

// Store defines the interface for order persistence
type Store interface {
	// CreateOrder persists a completed order. The order is never mutated
	// by the conversation engine after creation.
	CreateOrder(order *models.Order) error

	// GetOrder returns an order by its order number
	GetOrder(orderNumber string) (*models.Order, error)

	// GetOrders returns all persisted orders, newest first
	GetOrders() ([]*models.Order, error)

	// GetOrdersByPhone returns a sender's orders, newest first
	GetOrdersByPhone(phone string) ([]*models.Order, error)

	// CountOrders returns the number of persisted orders
	CountOrders() (int64, error)
}
