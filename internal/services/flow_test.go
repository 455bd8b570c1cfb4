package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarwanshoes/store-backend/internal/catalog"
	"github.com/sarwanshoes/store-backend/internal/models"
	"github.com/sarwanshoes/store-backend/internal/session"
	"github.com/sarwanshoes/store-backend/internal/storage"
)

// fakeMessenger records outbound sends instead of hitting the Cloud API.
// Setting failAfter makes every send past that count fail, to simulate a
// channel outage mid-turn.
type fakeMessenger struct {
	mu        sync.Mutex
	sent      []sentMessage
	failAfter int // -1 disables failures
}

type sentMessage struct {
	kind     string // "text" or "image"
	to       string
	body     string
	imageURL string
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{failAfter: -1}
}

func (m *fakeMessenger) record(msg sentMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter >= 0 && len(m.sent) >= m.failAfter {
		return errors.New("channel unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMessenger) SendText(to, body string) error {
	return m.record(sentMessage{kind: "text", to: to, body: body})
}

func (m *fakeMessenger) SendImage(to, imageURL, caption string) error {
	return m.record(sentMessage{kind: "image", to: to, body: caption, imageURL: imageURL})
}

func (m *fakeMessenger) SendInteractiveButtons(to, body string, buttons []Button) error {
	return m.record(sentMessage{kind: "buttons", to: to, body: body})
}

func (m *fakeMessenger) setFailAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
}

func (m *fakeMessenger) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *fakeMessenger) last() sentMessage {
	msgs := m.messages()
	if len(msgs) == 0 {
		return sentMessage{}
	}
	return msgs[len(msgs)-1]
}

func (m *fakeMessenger) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

type flowFixture struct {
	flow      *FlowService
	messenger *fakeMessenger
	sessions  session.Store
	orders    *storage.MemoryStore
}

func newFlowFixture(t *testing.T, cat *catalog.Catalog) *flowFixture {
	t.Helper()

	sessions, err := session.NewStore(session.StoreTypeMemory)
	require.NoError(t, err)

	orders := storage.NewMemoryStore()
	messenger := newFakeMessenger()

	flow := NewFlowService(sessions, NewOrderService(orders), cat, messenger)
	flow.SetSendDelay(0)
	flow.SetCleanupDelay(10 * time.Millisecond)

	return &flowFixture{flow: flow, messenger: messenger, sessions: sessions, orders: orders}
}

// send drives one inbound turn with a fresh message id
func (f *flowFixture) send(t *testing.T, from, text string) {
	t.Helper()
	err := f.flow.ProcessMessage(context.Background(), from, "wamid."+uuid.NewString(), text)
	require.NoError(t, err)
}

func (f *flowFixture) session(t *testing.T, from string) *session.Session {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), from)
	require.NoError(t, err)
	return s
}

const testSender = "15551234567"

func TestHappyPathToSelection(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	f.send(t, testSender, "start")
	assert.Equal(t, session.StateLanguage, f.session(t, testSender).State)
	assert.Contains(t, f.messenger.last().body, "Choose Your Language")

	f.send(t, testSender, "1")
	assert.Equal(t, session.StateShoeType, f.session(t, testSender).State)
	assert.Contains(t, f.messenger.last().body, "Choose Shoe Category")

	f.send(t, testSender, "2") // Sports
	assert.Equal(t, session.StateBudget, f.session(t, testSender).State)
	assert.Contains(t, f.messenger.last().body, "Select Your Budget Range")

	f.send(t, testSender, "2") // $50-$80
	assert.Equal(t, session.StateSize, f.session(t, testSender).State)
	assert.Contains(t, f.messenger.last().body, "Select Your Shoe Size")

	f.messenger.reset()
	f.send(t, testSender, "1") // any size

	s := f.session(t, testSender)
	assert.Equal(t, session.StateSelectProduct, s.State)
	require.Len(t, s.Candidates, 3)
	assert.Equal(t, 3, s.TotalMatches)

	// The one exact match leads, backfilled same-category products follow
	assert.Equal(t, "Air Runner Pro", s.Candidates[0].Name)
	for _, p := range s.Candidates {
		assert.Equal(t, catalog.CategorySports, p.Category)
	}

	// One image per candidate, then the selection prompt
	msgs := f.messenger.messages()
	require.Len(t, msgs, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, "image", msgs[i].kind)
		assert.NotEmpty(t, msgs[i].imageURL)
		assert.Contains(t, msgs[i].body, fmt.Sprintf("%d️⃣", i+1))
	}
	assert.Equal(t, "text", msgs[3].kind)
	assert.Contains(t, msgs[3].body, "Found 3 matching shoes")
}

func TestWelcomeIgnoresStrangers(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	f.send(t, testSender, "hello")

	assert.Empty(t, f.messenger.messages())
	s := f.session(t, testSender)
	require.NotNil(t, s)
	assert.Equal(t, session.StateWelcome, s.State)
}

func TestStartKeywordIsCaseInsensitive(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	f.send(t, testSender, "START")
	assert.Equal(t, session.StateLanguage, f.session(t, testSender).State)
}

func TestStartMidFlowIsOrdinaryInput(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	f.send(t, testSender, "start")
	f.send(t, testSender, "1")
	f.send(t, testSender, "2")
	require.Equal(t, session.StateBudget, f.session(t, testSender).State)

	// "start" is not a budget option, so the conversation does not reset
	f.send(t, testSender, "start")
	assert.Equal(t, session.StateBudget, f.session(t, testSender).State)
	assert.Contains(t, f.messenger.last().body, "Invalid option")
}

func TestInvalidOptionsReprompt(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	f.send(t, testSender, "start")

	f.send(t, testSender, "5")
	assert.Equal(t, session.StateLanguage, f.session(t, testSender).State)
	assert.Contains(t, f.messenger.last().body, "Invalid option")

	f.send(t, testSender, "1")
	f.send(t, testSender, "pizza")
	assert.Equal(t, session.StateShoeType, f.session(t, testSender).State)
	assert.Contains(t, f.messenger.last().body, "Invalid option")
}

func TestInvalidSelectionReprompts(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	for _, text := range []string{"start", "1", "2", "2", "1"} {
		f.send(t, testSender, text)
	}
	require.Equal(t, session.StateSelectProduct, f.session(t, testSender).State)
	before := f.session(t, testSender).Candidates

	f.send(t, testSender, "4")

	s := f.session(t, testSender)
	assert.Equal(t, session.StateSelectProduct, s.State)
	assert.Equal(t, before, s.Candidates)
	assert.Contains(t, f.messenger.last().body, "Please select a valid option")
}

func TestTerminationFromAnyState(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	f.send(t, testSender, "start")
	f.send(t, testSender, "1")
	f.send(t, testSender, "2")
	require.Equal(t, session.StateBudget, f.session(t, testSender).State)

	f.send(t, testSender, "END")

	assert.Nil(t, f.session(t, testSender))
	assert.Contains(t, f.messenger.last().body, "Chat Ended Successfully")

	// A fresh start begins a brand-new conversation
	f.send(t, testSender, "start")
	s := f.session(t, testSender)
	require.NotNil(t, s)
	assert.Equal(t, session.StateLanguage, s.State)
	assert.Empty(t, s.Category)
}

func TestTerminationKeywordsAreCaseInsensitive(t *testing.T) {
	for _, keyword := range []string{"end", "Exit", "BYE", "cancel", "stop"} {
		f := newFlowFixture(t, catalog.New())

		f.send(t, testSender, "start")
		f.send(t, testSender, keyword)

		assert.Nil(t, f.session(t, testSender), "keyword %q", keyword)
	}
}

func TestDuplicateMessageIgnored(t *testing.T) {
	f := newFlowFixture(t, catalog.New())
	ctx := context.Background()

	messageID := "wamid.replayed"
	require.NoError(t, f.flow.ProcessMessage(ctx, testSender, messageID, "start"))
	require.Equal(t, session.StateLanguage, f.session(t, testSender).State)
	sendsBefore := len(f.messenger.messages())

	// The provider redelivers the exact same event
	require.NoError(t, f.flow.ProcessMessage(ctx, testSender, messageID, "start"))

	assert.Equal(t, session.StateLanguage, f.session(t, testSender).State)
	assert.Len(t, f.messenger.messages(), sendsBefore)
}

func TestEmptyMessageIgnored(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	f.send(t, testSender, "   ")

	assert.Empty(t, f.messenger.messages())
	assert.Nil(t, f.session(t, testSender))
}

func TestUnknownStateResetsConversation(t *testing.T) {
	f := newFlowFixture(t, catalog.New())
	ctx := context.Background()

	s := session.New(testSender)
	s.State = session.State("LEGACY")
	require.NoError(t, f.sessions.Save(ctx, testSender, s))

	f.send(t, testSender, "2")

	assert.Equal(t, session.StateWelcome, f.session(t, testSender).State)
	assert.Contains(t, f.messenger.last().body, "Type *start* to begin")
}

func TestNoMatchesEndsSession(t *testing.T) {
	// A catalog with no sports products at all makes the query a dead end
	cat := catalog.NewFromProducts([]catalog.Product{
		{ID: 4, Name: "Classic Walk Basic", Category: catalog.CategoryCasual, Price: 25, Sizes: []int{6, 7, 8, 9, 10}},
	})
	f := newFlowFixture(t, cat)

	f.send(t, testSender, "start")
	f.send(t, testSender, "1")
	f.send(t, testSender, "2") // Sports
	f.send(t, testSender, "1")
	f.send(t, testSender, "1")

	assert.Contains(t, f.messenger.last().body, "No Shoes Found")
	assert.Nil(t, f.session(t, testSender))
}

func TestMissingDeliveryDetailsReprompt(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	for _, text := range []string{"start", "1", "2", "1", "1", "1", "2"} {
		f.send(t, testSender, text)
	}
	require.Equal(t, session.StateOrderConfirm, f.session(t, testSender).State)
	require.Equal(t, session.PurchaseHomeDelivery, f.session(t, testSender).PurchaseMethod)

	f.send(t, testSender, "Name: Ali Khan\nPhone: 9876543210")

	s := f.session(t, testSender)
	require.NotNil(t, s)
	assert.Equal(t, session.StateOrderConfirm, s.State)
	assert.Contains(t, f.messenger.last().body, "*Missing:* address, city")

	count, err := f.orders.CountOrders()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeliveryOrderConfirmation(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	// Sports, $25-$50 band, any size: Air Runner Basic at $30 leads
	for _, text := range []string{"start", "1", "2", "1", "1", "1", "2"} {
		f.send(t, testSender, text)
	}

	f.send(t, testSender, "Name: Ali Khan\nAddress: 123 Main St\nCity: Mumbai, 400001\nPhone: 9876543210")

	orders, err := f.orders.GetOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, 30.0, order.Subtotal)
	assert.Equal(t, 5.0, order.DeliveryFee)
	assert.Equal(t, 35.0, order.Total)
	assert.Equal(t, testSender, order.Phone)
	assert.Equal(t, session.PurchaseHomeDelivery, order.PurchaseMethod)
	assert.Equal(t, "Mumbai, 400001", order.CustomerDetails()["city"])

	summary := f.messenger.last().body
	assert.Contains(t, summary, "ORDER CONFIRMED")
	assert.Contains(t, summary, order.OrderNumber)
	assert.Contains(t, summary, "Total: $35.00")

	// The session is cleared after the grace period
	assert.Eventually(t, func() bool {
		return f.session(t, testSender) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestPickupOrderConfirmation(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	for _, text := range []string{"start", "1", "2", "1", "4", "1", "1"} {
		f.send(t, testSender, text)
	}
	require.Equal(t, session.PurchaseStorePickup, f.session(t, testSender).PurchaseMethod)

	f.send(t, testSender, "Name: Ali Khan\nPhone: 9876543210\nDate: 25/12/2024")

	orders, err := f.orders.GetOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 0.0, orders[0].DeliveryFee)
	assert.Equal(t, orders[0].Subtotal, orders[0].Total)
	assert.Equal(t, "8", orders[0].Items()[0].Size)
}

func TestPurchaseMethodAcceptsWords(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	for _, text := range []string{"start", "1", "2", "1", "1", "1"} {
		f.send(t, testSender, text)
	}
	require.Equal(t, session.StatePurchase, f.session(t, testSender).State)

	f.send(t, testSender, "home delivery please")

	s := f.session(t, testSender)
	assert.Equal(t, session.PurchaseHomeDelivery, s.PurchaseMethod)
	assert.Equal(t, session.StateOrderConfirm, s.State)
}

func TestStateAlwaysValidThroughFullFlow(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	for _, text := range []string{"start", "1", "3", "2", "1", "2", "1"} {
		f.send(t, testSender, text)
		s := f.session(t, testSender)
		require.NotNil(t, s)
		assert.True(t, s.State.Valid(), "after %q state is %q", text, s.State)
	}
}

func TestLanguageChoicePersists(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	f.send(t, testSender, "start")
	f.send(t, testSender, "2")

	s := f.session(t, testSender)
	assert.Equal(t, "AR", s.Language)
	assert.True(t, strings.Contains(f.messenger.last().body, "اختر"))
}

// flakyOrderStore fails CreateOrder on demand, delegating everything else
// to the in-memory store
type flakyOrderStore struct {
	*storage.MemoryStore
	mu       sync.Mutex
	failNext bool
}

func (s *flakyOrderStore) CreateOrder(order *models.Order) error {
	s.mu.Lock()
	fail := s.failNext
	s.mu.Unlock()
	if fail {
		return errors.New("connection reset by peer")
	}
	return s.MemoryStore.CreateOrder(order)
}

func (s *flakyOrderStore) setFailNext(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = fail
}

func TestPersistenceFailureKeepsSessionForRetry(t *testing.T) {
	sessions, err := session.NewStore(session.StoreTypeMemory)
	require.NoError(t, err)

	orders := &flakyOrderStore{MemoryStore: storage.NewMemoryStore(), failNext: true}
	messenger := newFakeMessenger()
	flow := NewFlowService(sessions, NewOrderService(orders), catalog.New(), messenger)
	flow.SetSendDelay(0)
	flow.SetCleanupDelay(10 * time.Millisecond)
	f := &flowFixture{flow: flow, messenger: messenger, sessions: sessions}

	for _, text := range []string{"start", "1", "2", "1", "1", "1", "2"} {
		f.send(t, testSender, text)
	}
	require.Equal(t, session.StateOrderConfirm, f.session(t, testSender).State)

	details := "Name: Ali Khan\nAddress: 123 Main St\nCity: Mumbai, 400001\nPhone: 9876543210"
	f.send(t, testSender, details)

	// The user is told, the session and details survive, nothing is stored
	assert.Contains(t, f.messenger.last().body, "could not save your order")
	s := f.session(t, testSender)
	require.NotNil(t, s)
	assert.Equal(t, session.StateOrderConfirm, s.State)
	assert.Equal(t, "Mumbai, 400001", s.CustomerDetails["city"])

	count, err := orders.CountOrders()
	require.NoError(t, err)
	assert.Zero(t, count)

	// Resending the same details once the store recovers places the order
	orders.setFailNext(false)
	f.send(t, testSender, details)

	placed, err := orders.GetOrders()
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, 35.0, placed[0].Total)
	assert.Contains(t, f.messenger.last().body, "ORDER CONFIRMED")
}

func TestSendFailureAbortsRemainingSends(t *testing.T) {
	f := newFlowFixture(t, catalog.New())

	for _, text := range []string{"start", "1", "2", "1"} {
		f.send(t, testSender, text)
	}
	require.Equal(t, session.StateSize, f.session(t, testSender).State)

	// The first candidate image goes out, the second send fails
	f.messenger.reset()
	f.messenger.setFailAfter(1)

	err := f.flow.ProcessMessage(context.Background(), testSender, "wamid."+uuid.NewString(), "1")
	require.Error(t, err)
	assert.Len(t, f.messenger.messages(), 1)

	// The turn's progress is saved so the sender can carry on once the
	// channel recovers
	s := f.session(t, testSender)
	require.NotNil(t, s)
	assert.Equal(t, session.StateSelectProduct, s.State)
	require.Len(t, s.Candidates, 3)

	f.messenger.setFailAfter(-1)
	f.send(t, testSender, "1")
	assert.Equal(t, session.StatePurchase, f.session(t, testSender).State)
}

func TestConcurrentTurnsForOneSender(t *testing.T) {
	f := newFlowFixture(t, catalog.New())
	ctx := context.Background()

	f.send(t, testSender, "start")
	require.Equal(t, session.StateLanguage, f.session(t, testSender).State)

	// The provider can deliver overlapping events for one sender; each
	// turn works on a private copy and publishes through Save
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.flow.ProcessMessage(ctx, testSender, "wamid."+uuid.NewString(), "1")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	s := f.session(t, testSender)
	require.NotNil(t, s)
	assert.True(t, s.State.Valid())
}

func TestOpenEndedBandIncludesExpensiveProducts(t *testing.T) {
	cat := catalog.NewFromProducts([]catalog.Product{
		{ID: 1, Name: "Air Runner Basic", Category: catalog.CategorySports, Price: 30, Sizes: []int{6, 7, 8, 9, 10}},
		{ID: 2, Name: "Air Runner Signature", Category: catalog.CategorySports, Price: 150, Sizes: []int{6, 7, 8, 9, 10}},
	})
	f := newFlowFixture(t, cat)

	f.send(t, testSender, "start")
	f.send(t, testSender, "1")
	f.send(t, testSender, "2") // Sports

	// The top band has no upper bound and is rendered as "$80+"
	assert.Contains(t, f.messenger.last().body, "$80+ (Elite)")

	f.send(t, testSender, "3")
	f.send(t, testSender, "1")

	s := f.session(t, testSender)
	require.Equal(t, session.StateSelectProduct, s.State)
	assert.Equal(t, "Air Runner Signature", s.Candidates[0].Name)
}
