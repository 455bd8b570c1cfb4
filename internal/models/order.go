package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Order status constants
const (
	OrderStatusPending = "pending"
)

// OrderItem is one captured line item of an order
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Code      string  `json:"code"`
	ImageURL  string  `json:"image_url"`
}

// Order is a completed purchase produced by the conversation flow. The
// flexible detail and item collections are stored as JSON string columns
// so the schema stays stable as the conversation captures new fields.
type Order struct {
	gorm.Model
	OrderNumber    string `json:"order_number" gorm:"uniqueIndex"`
	Phone          string `json:"phone" gorm:"index"`
	PurchaseMethod string `json:"purchase_method"`

	// JSON-encoded map of customer detail key/value pairs
	CustomerDetailsJSON string `json:"-" gorm:"column:customer_details"`
	// JSON-encoded []OrderItem
	ItemsJSON string `json:"-" gorm:"column:items"`

	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
}

// SetCustomerDetails encodes the detail map into the JSON column
func (o *Order) SetCustomerDetails(details map[string]string) error {
	b, err := json.Marshal(details)
	if err != nil {
		return err
	}
	o.CustomerDetailsJSON = string(b)
	return nil
}

// CustomerDetails decodes the detail map from the JSON column
func (o *Order) CustomerDetails() map[string]string {
	details := map[string]string{}
	if o.CustomerDetailsJSON != "" {
		_ = json.Unmarshal([]byte(o.CustomerDetailsJSON), &details)
	}
	return details
}

// SetItems encodes the line items into the JSON column
func (o *Order) SetItems(items []OrderItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.ItemsJSON = string(b)
	return nil
}

// Items decodes the line items from the JSON column
func (o *Order) Items() []OrderItem {
	var items []OrderItem
	if o.ItemsJSON != "" {
		_ = json.Unmarshal([]byte(o.ItemsJSON), &items)
	}
	return items
}

// MarshalJSON renders the order with the detail map and items expanded,
// for the order-listing endpoint
func (o *Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		*alias
		CustomerDetails map[string]string `json:"customer_details"`
		Items           []OrderItem       `json:"items"`
	}{
		alias:           (*alias)(o),
		CustomerDetails: o.CustomerDetails(),
		Items:           o.Items(),
	})
}
