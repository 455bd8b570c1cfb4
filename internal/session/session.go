// Package session holds the per-sender conversational state record and
// its storage drivers.
package session

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sarwanshoes/store-backend/internal/catalog"
)

// State is the conversation step a session is currently in
type State string

const (
	StateWelcome       State = "WELCOME"
	StateLanguage      State = "LANG"
	StateShoeType      State = "TYPE"
	StateBudget        State = "BUDGET"
	StateSize          State = "SIZE"
	StateSelectProduct State = "SELECT_PRODUCT"
	StatePurchase      State = "PURCHASE"
	StateOrderConfirm  State = "ORDER_CONFIRM"
)

// Valid reports whether s is a member of the defined state enum
func (s State) Valid() bool {
	switch s {
	case StateWelcome, StateLanguage, StateShoeType, StateBudget,
		StateSize, StateSelectProduct, StatePurchase, StateOrderConfirm:
		return true
	}
	return false
}

// Purchase methods
const (
	PurchaseStorePickup  = "STORE_PICKUP"
	PurchaseHomeDelivery = "HOME_DELIVERY"
)

// PriceNoLimit marks a price band with no upper bound
const PriceNoLimit = math.MaxFloat64

// PriceBand is one selectable budget range. A Max of PriceNoLimit means
// the band is open-ended.
type PriceBand struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

// Session is the per-sender conversational state. It is mutated only by
// the handler bound to its current state during a single turn.
type Session struct {
	SessionID    string    `json:"session_id"`
	Phone        string    `json:"phone"`
	State        State     `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`

	Language    string               `json:"language,omitempty"`
	Category    catalog.Category     `json:"category,omitempty"`
	PriceMin    float64              `json:"price_min,omitempty"`
	PriceMax    float64              `json:"price_max,omitempty"`
	BudgetLabel string               `json:"budget_label,omitempty"`
	BudgetBands map[string]PriceBand `json:"budget_bands,omitempty"`

	// SelectedSize is 0 when the customer chose "any size"
	SelectedSize int `json:"selected_size,omitempty"`

	Candidates   []catalog.Product `json:"candidates,omitempty"`
	TotalMatches int               `json:"total_matches,omitempty"`
	ChosenIndex  int               `json:"chosen_index,omitempty"`
	ChosenID     int               `json:"chosen_id,omitempty"`

	PurchaseMethod  string            `json:"purchase_method,omitempty"`
	CustomerDetails map[string]string `json:"customer_details,omitempty"`
}

// New creates a session in the initial state for the given sender
func New(phone string) *Session {
	now := time.Now()
	return &Session{
		SessionID:    uuid.NewString(),
		Phone:        phone,
		State:        StateWelcome,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Touch refreshes the last-activity timestamp
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}

// clone returns a deep copy of the session so callers never share the
// stored record
func (s *Session) clone() *Session {
	out := *s
	if s.BudgetBands != nil {
		out.BudgetBands = make(map[string]PriceBand, len(s.BudgetBands))
		for key, band := range s.BudgetBands {
			out.BudgetBands[key] = band
		}
	}
	if s.Candidates != nil {
		out.Candidates = append([]catalog.Product(nil), s.Candidates...)
	}
	if s.CustomerDetails != nil {
		out.CustomerDetails = make(map[string]string, len(s.CustomerDetails))
		for key, value := range s.CustomerDetails {
			out.CustomerDetails[key] = value
		}
	}
	return &out
}

// ChosenProduct returns the product picked in SELECT_PRODUCT, or nil if
// none has been chosen yet. The chosen product is always an element of
// the last computed candidate list.
func (s *Session) ChosenProduct() *catalog.Product {
	if s.ChosenID == 0 {
		return nil
	}
	for i := range s.Candidates {
		if s.Candidates[i].ID == s.ChosenID {
			return &s.Candidates[i]
		}
	}
	return nil
}
