package storage

import (
	"gorm.io/gorm"

	"github.com/sarwanshoes/store-backend/internal/models"
)

// DatabaseStore persists orders in PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed order store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) CreateOrder(order *models.Order) error {
	return d.db.Create(order).Error
}

func (d *DatabaseStore) GetOrder(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := d.db.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DatabaseStore) GetOrders() ([]*models.Order, error) {
	var orders []*models.Order
	if err := d.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (d *DatabaseStore) GetOrdersByPhone(phone string) ([]*models.Order, error) {
	var orders []*models.Order
	if err := d.db.Where("phone = ?", phone).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (d *DatabaseStore) CountOrders() (int64, error) {
	var count int64
	if err := d.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
