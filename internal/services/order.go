package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/sarwanshoes/store-backend/internal/models"
	"github.com/sarwanshoes/store-backend/internal/session"
	"github.com/sarwanshoes/store-backend/internal/storage"
)

// Pricing rules
const (
	// DeliveryFee is charged for home delivery below the free threshold
	DeliveryFee = 5.0
	// FreeDeliveryThreshold is the subtotal at which home delivery is free
	FreeDeliveryThreshold = 50.0
)

// requiredFields declares the customer detail keys each purchase method
// must provide, in the order they are reported back when missing
var requiredFields = map[string][]string{
	session.PurchaseStorePickup:  {"name", "phone", "date"},
	session.PurchaseHomeDelivery: {"name", "address", "city", "phone"},
}

// OrderService assembles and persists orders from completed sessions
type OrderService struct {
	store storage.Store
}

// NewOrderService creates an order service backed by the given store
func NewOrderService(store storage.Store) *OrderService {
	return &OrderService{store: store}
}

// ParseCustomerDetails parses free-text "key: value" lines into a map.
// Keys are lowercased; values keep any embedded colons.
func ParseCustomerDetails(text string) map[string]string {
	details := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if key != "" && value != "" {
			details[key] = value
		}
	}
	return details
}

// MissingFields returns the required keys absent from the details map for
// the given purchase method, in declaration order
func MissingFields(details map[string]string, purchaseMethod string) []string {
	var missing []string
	for _, field := range requiredFields[purchaseMethod] {
		if details[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// DeliveryFeeFor computes the delivery surcharge for a purchase method
// and subtotal
func DeliveryFeeFor(purchaseMethod string, subtotal float64) float64 {
	if purchaseMethod == session.PurchaseHomeDelivery && subtotal < FreeDeliveryThreshold {
		return DeliveryFee
	}
	return 0
}

// NewOrderNumber derives a human-readable order identifier from a time
func NewOrderNumber(t time.Time) string {
	encoded := strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
	if len(encoded) > 6 {
		encoded = encoded[len(encoded)-6:]
	}
	return "SAR-" + encoded
}

// Assemble builds an immutable order record from a session that has a
// chosen product, a purchase method, and validated customer details
func (o *OrderService) Assemble(s *session.Session) (*models.Order, error) {
	product := s.ChosenProduct()
	if product == nil {
		return nil, fmt.Errorf("session has no chosen product")
	}
	if s.PurchaseMethod == "" {
		return nil, fmt.Errorf("session has no purchase method")
	}
	if missing := MissingFields(s.CustomerDetails, s.PurchaseMethod); len(missing) > 0 {
		return nil, fmt.Errorf("missing customer details: %s", strings.Join(missing, ", "))
	}

	size := "Store Selection"
	if s.SelectedSize != 0 {
		size = strconv.Itoa(s.SelectedSize)
	}

	imageURL := ""
	if len(product.Images) > 0 {
		imageURL = product.Images[0]
	}

	subtotal := product.Price
	deliveryFee := DeliveryFeeFor(s.PurchaseMethod, subtotal)

	order := &models.Order{
		OrderNumber:    NewOrderNumber(time.Now()),
		Phone:          s.Phone,
		PurchaseMethod: s.PurchaseMethod,
		Subtotal:       subtotal,
		DeliveryFee:    deliveryFee,
		Total:          subtotal + deliveryFee,
		Status:         models.OrderStatusPending,
	}
	if err := order.SetCustomerDetails(s.CustomerDetails); err != nil {
		return nil, fmt.Errorf("failed to encode customer details: %w", err)
	}
	if err := order.SetItems([]models.OrderItem{{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Size:      size,
		Code:      product.Code(),
		ImageURL:  imageURL,
	}}); err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}
	return order, nil
}

// Place persists an assembled order. A persistence failure is reported to
// the caller so the confirmation step can be retried without re-collecting
// details.
func (o *OrderService) Place(order *models.Order) error {
	if err := o.store.CreateOrder(order); err != nil {
		log.Printf("❌ Failed to persist order %s: %v", order.OrderNumber, err)
		return fmt.Errorf("failed to persist order: %w", err)
	}
	log.Printf("🗄️  Order saved: %s (total $%.2f)", order.OrderNumber, order.Total)
	return nil
}
