package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/sarwanshoes/store-backend/internal/catalog"
	"github.com/sarwanshoes/store-backend/internal/dedup"
	"github.com/sarwanshoes/store-backend/internal/session"
)

// terminationKeywords end the conversation from any state
var terminationKeywords = map[string]bool{
	"END":    true,
	"EXIT":   true,
	"BYE":    true,
	"CANCEL": true,
	"STOP":   true,
}

// startKeyword begins a new conversation from the initial state
const startKeyword = "start"

// errSessionEnded signals that a handler closed the session; the engine
// must delete it instead of saving it back
var errSessionEnded = errors.New("session ended")

// stateHandler processes one turn for a session in a given state. The
// handler owns all mutation of the session during the turn.
type stateHandler func(ctx context.Context, s *session.Session, text string) error

// FlowService drives the shopping conversation: one inbound message in,
// zero or more outbound messages out, exactly one state handler per turn.
type FlowService struct {
	sessions  session.Store
	orders    *OrderService
	catalog   *catalog.Catalog
	messenger Messenger
	guard     *dedup.Guard

	// sendDelay paces consecutive outbound sends within one turn so the
	// channel's rate limits are not tripped
	sendDelay time.Duration
	// cleanupDelay is the grace period before a confirmed order's
	// session is deleted, tolerating a final user message
	cleanupDelay time.Duration

	handlers map[session.State]stateHandler
}

// NewFlowService wires the conversation engine
func NewFlowService(sessions session.Store, orders *OrderService, cat *catalog.Catalog, messenger Messenger) *FlowService {
	f := &FlowService{
		sessions:     sessions,
		orders:       orders,
		catalog:      cat,
		messenger:    messenger,
		guard:        dedup.New(),
		sendDelay:    800 * time.Millisecond,
		cleanupDelay: 10 * time.Second,
	}

	// Transition table: every defined state has exactly one handler
	f.handlers = map[session.State]stateHandler{
		session.StateWelcome:       f.handleWelcome,
		session.StateLanguage:      f.handleLanguage,
		session.StateShoeType:      f.handleShoeType,
		session.StateBudget:        f.handleBudget,
		session.StateSize:          f.handleSize,
		session.StateSelectProduct: f.handleSelectProduct,
		session.StatePurchase:      f.handlePurchase,
		session.StateOrderConfirm:  f.handleOrderConfirm,
	}
	return f
}

// SetSendDelay overrides the inter-message pacing delay
func (f *FlowService) SetSendDelay(d time.Duration) {
	f.sendDelay = d
}

// SetCleanupDelay overrides the post-order session grace period
func (f *FlowService) SetCleanupDelay(d time.Duration) {
	f.cleanupDelay = d
}

// ActiveSessions returns the number of live sessions, for monitoring
func (f *FlowService) ActiveSessions(ctx context.Context) int {
	all, err := f.sessions.All(ctx)
	if err != nil {
		return 0
	}
	return len(all)
}

// ProcessMessage handles one inbound message for one sender: dedup, the
// termination short circuit, session resolution, and per-state dispatch.
// Errors are contained per turn; a send failure aborts the turn's
// remaining sends but never the process.
func (f *FlowService) ProcessMessage(ctx context.Context, from, messageID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		// Malformed event, no reply
		return nil
	}

	if !f.guard.Admit(messageID) {
		log.Printf("🔄 Duplicate message ignored: %s", messageID)
		return nil
	}

	log.Printf("📱 Processing message from %s: %q", from, text)

	if terminationKeywords[strings.ToUpper(text)] {
		if err := f.sessions.Delete(ctx, from); err != nil {
			return err
		}
		return f.messenger.SendText(from, goodbyeMessage())
	}

	s, _, err := f.sessions.GetOrCreate(ctx, from)
	if err != nil {
		return err
	}
	s.Touch()

	handler, ok := f.handlers[s.State]
	if !ok {
		// An unrecognized state resets the conversation
		log.Printf("⚠️  Unknown state %q for %s, resetting to %s", s.State, from, session.StateWelcome)
		s.State = session.StateWelcome
		if err := f.sessions.Save(ctx, from, s); err != nil {
			return err
		}
		return f.messenger.SendText(from, greetingMessage())
	}

	if err := handler(ctx, s, text); err != nil {
		if errors.Is(err, errSessionEnded) {
			return f.sessions.Delete(ctx, from)
		}
		// Keep the touched session so the sender can retry the turn
		if saveErr := f.sessions.Save(ctx, from, s); saveErr != nil {
			log.Printf("❌ Failed to save session for %s: %v", from, saveErr)
		}
		return err
	}

	return f.sessions.Save(ctx, from, s)
}

// pause waits the pacing delay between consecutive sends in one turn
func (f *FlowService) pause() {
	if f.sendDelay > 0 {
		time.Sleep(f.sendDelay)
	}
}
