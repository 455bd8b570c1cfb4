package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sarwanshoes/store-backend/internal/models"
)

// MemoryStore holds orders in memory, for testing and local development
type MemoryStore struct {
	mu      sync.RWMutex
	orders  map[string]*models.Order
	counter uint
}

// NewMemoryStore creates a new in-memory order store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*models.Order)}
}

func (m *MemoryStore) CreateOrder(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[order.OrderNumber]; exists {
		return fmt.Errorf("order %s already exists", order.OrderNumber)
	}

	m.counter++
	order.ID = m.counter
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	m.orders[order.OrderNumber] = order
	return nil
}

func (m *MemoryStore) GetOrder(orderNumber string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, exists := m.orders[orderNumber]
	if !exists {
		return nil, fmt.Errorf("order not found")
	}
	return order, nil
}

func (m *MemoryStore) GetOrders() ([]*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]*models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *MemoryStore) GetOrdersByPhone(phone string) ([]*models.Order, error) {
	all, err := m.GetOrders()
	if err != nil {
		return nil, err
	}

	var orders []*models.Order
	for _, order := range all {
		if order.Phone == phone {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *MemoryStore) CountOrders() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.orders)), nil
}
