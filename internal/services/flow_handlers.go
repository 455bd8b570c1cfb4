package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/sarwanshoes/store-backend/internal/catalog"
	"github.com/sarwanshoes/store-backend/internal/session"
)

// sizeOptions maps the size menu digits to shoe sizes; option 1 means any
var sizeOptions = map[string]int{
	"1": 0,
	"2": 6,
	"3": 7,
	"4": 8,
	"5": 9,
	"6": 10,
}

// categoryOptions maps the category menu digits
var categoryOptions = map[string]catalog.Category{
	"1": catalog.CategoryCasual,
	"2": catalog.CategorySports,
	"3": catalog.CategoryFormal,
}

// handleWelcome waits for the start keyword. Anything else is ignored
// without a reply, so strangers texting the number are not spammed.
func (f *FlowService) handleWelcome(ctx context.Context, s *session.Session, text string) error {
	if !strings.EqualFold(text, startKeyword) {
		return nil
	}
	s.State = session.StateLanguage
	return f.messenger.SendText(s.Phone, languageMenu())
}

func (f *FlowService) handleLanguage(ctx context.Context, s *session.Session, text string) error {
	switch text {
	case "1":
		s.Language = "EN"
		s.State = session.StateShoeType
		if err := f.messenger.SendText(s.Phone, "✅ English selected."); err != nil {
			return err
		}
	case "2":
		s.Language = "AR"
		s.State = session.StateShoeType
		if err := f.messenger.SendText(s.Phone, "✅ العربية محددة."); err != nil {
			return err
		}
	default:
		return f.messenger.SendText(s.Phone, languageInvalid())
	}

	f.pause()
	return f.messenger.SendText(s.Phone, categoryMenu(s.Language))
}

func (f *FlowService) handleShoeType(ctx context.Context, s *session.Session, text string) error {
	category, ok := categoryOptions[text]
	if !ok {
		return f.messenger.SendText(s.Phone, categoryInvalid())
	}

	s.Category = category
	s.BudgetBands = budgetBandsFor(category)
	s.State = session.StateBudget

	msg := fmt.Sprintf("%s *%s selected!*", category.Emoji(), category.DisplayName())
	if err := f.messenger.SendText(s.Phone, msg); err != nil {
		return err
	}

	f.pause()
	return f.messenger.SendText(s.Phone, budgetMenu(category, s.BudgetBands))
}

func (f *FlowService) handleBudget(ctx context.Context, s *session.Session, text string) error {
	band, ok := s.BudgetBands[text]
	if !ok {
		return f.messenger.SendText(s.Phone, budgetInvalid())
	}

	s.PriceMin = band.Min
	s.PriceMax = band.Max
	s.BudgetLabel = band.Label
	s.State = session.StateSize

	msg := fmt.Sprintf("💰 *%s Range (%s) selected!*", band.Label, priceRange(band.Min, band.Max))
	if err := f.messenger.SendText(s.Phone, msg); err != nil {
		return err
	}

	f.pause()
	return f.messenger.SendText(s.Phone, sizeMenu())
}

// handleSize runs the catalog query. Zero results even after backfill is a
// dead end: the session is closed and the customer must restart.
func (f *FlowService) handleSize(ctx context.Context, s *session.Session, text string) error {
	size, ok := sizeOptions[text]
	if !ok {
		return f.messenger.SendText(s.Phone, sizeInvalid())
	}
	s.SelectedSize = size

	matched := f.catalog.Filter(s.Category, s.PriceMin, s.PriceMax, size)
	exact := len(matched)
	matched = f.catalog.Backfill(matched, s.Category, catalog.MaxDisplay)

	log.Printf("🔍 Catalog query for %s: category=%s price=%.0f-%.0f size=%d exact=%d shown=%d",
		s.Phone, s.Category, s.PriceMin, s.PriceMax, size, exact, len(matched))

	if len(matched) == 0 {
		if err := f.messenger.SendText(s.Phone, noMatchMessage(s)); err != nil {
			return err
		}
		return errSessionEnded
	}

	shown, total := catalog.TruncateForDisplay(matched, catalog.MaxDisplay)
	s.Candidates = shown
	s.TotalMatches = total
	s.State = session.StateSelectProduct

	for i := range shown {
		p := &shown[i]
		if err := f.messenger.SendImage(s.Phone, p.Images[0], candidateCaption(i, p)); err != nil {
			return err
		}
		f.pause()
	}
	return f.messenger.SendText(s.Phone, selectionPrompt(len(shown), total))
}

func (f *FlowService) handleSelectProduct(ctx context.Context, s *session.Session, text string) error {
	index, err := strconv.Atoi(text)
	if err != nil || index < 1 || index > len(s.Candidates) {
		return f.messenger.SendText(s.Phone, selectionInvalid(s.Candidates))
	}

	product := &s.Candidates[index-1]
	s.ChosenIndex = index
	s.ChosenID = product.ID
	s.State = session.StatePurchase

	if err := f.messenger.SendImage(s.Phone, product.Images[0], productDetail(product)); err != nil {
		return err
	}

	f.pause()
	return f.messenger.SendText(s.Phone, deliveryMethodPrompt(product))
}

func (f *FlowService) handlePurchase(ctx context.Context, s *session.Session, text string) error {
	lower := strings.ToLower(text)

	switch {
	case text == "1" || lower == "btn1" || strings.Contains(lower, "pickup"):
		s.PurchaseMethod = session.PurchaseStorePickup
		s.State = session.StateOrderConfirm
		return f.messenger.SendText(s.Phone, pickupDetailsPrompt())

	case text == "2" || lower == "btn2" || strings.Contains(lower, "delivery") || strings.Contains(lower, "home"):
		s.PurchaseMethod = session.PurchaseHomeDelivery
		s.State = session.StateOrderConfirm
		return f.messenger.SendText(s.Phone, deliveryDetailsPrompt())

	default:
		return f.messenger.SendText(s.Phone, deliveryMethodInvalid())
	}
}

// handleOrderConfirm validates the captured details, assembles the order,
// and persists it. A persistence failure keeps the session so the customer
// can resend the same details.
func (f *FlowService) handleOrderConfirm(ctx context.Context, s *session.Session, text string) error {
	details := ParseCustomerDetails(text)

	if missing := MissingFields(details, s.PurchaseMethod); len(missing) > 0 {
		return f.messenger.SendText(s.Phone, missingFieldsMessage(missing))
	}
	s.CustomerDetails = details

	order, err := f.orders.Assemble(s)
	if err != nil {
		log.Printf("❌ Order assembly failed for %s: %v", s.Phone, err)
		return f.messenger.SendText(s.Phone, persistenceFailureMessage())
	}

	if err := f.orders.Place(order); err != nil {
		return f.messenger.SendText(s.Phone, persistenceFailureMessage())
	}

	if err := f.messenger.SendText(s.Phone, orderSummary(order)); err != nil {
		return err
	}

	// Grace period before cleanup so a trailing "thanks" does not start
	// a confusing new conversation mid-goodbye
	phone := s.Phone
	time.AfterFunc(f.cleanupDelay, func() {
		if err := f.sessions.Delete(context.Background(), phone); err != nil {
			log.Printf("❌ Post-order session cleanup failed for %s: %v", phone, err)
		}
	})
	return nil
}
