package handlers

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sarwanshoes/store-backend/internal/services"
)

// WebhookHandler receives WhatsApp Cloud API events and feeds them into
// the conversation flow
type WebhookHandler struct {
	flow *services.FlowService
}

// NewWebhookHandler creates a webhook handler over the given flow
func NewWebhookHandler(flow *services.FlowService) *WebhookHandler {
	return &WebhookHandler{flow: flow}
}

// webhookEnvelope is the provider-shaped inbound event. Only the fields
// the flow needs are decoded.
type webhookEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					ID   string `json:"id"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// HandleVerify answers the Cloud API subscription handshake
func (h *WebhookHandler) HandleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == os.Getenv("VERIFY_TOKEN") {
		log.Println("✅ Webhook verified successfully")
		return c.SendString(challenge)
	}
	log.Println("❌ Webhook verification failed")
	return c.SendStatus(fiber.StatusForbidden)
}

// HandleWebhook processes incoming WhatsApp messages. The event is
// acknowledged immediately; the conversational turn (which may involve
// several paced outbound sends) runs after the response is on the wire.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	var envelope webhookEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		// Still acknowledge so the provider does not retry a payload we
		// can never parse
		return c.SendStatus(fiber.StatusOK)
	}

	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Changes) == 0 {
		return c.SendStatus(fiber.StatusOK)
	}
	messages := envelope.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		// Status update or other non-message event
		return c.SendStatus(fiber.StatusOK)
	}

	message := messages[0]
	if message.From == "" || message.Text.Body == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	go h.processTurn(message.From, message.ID, message.Text.Body)

	return c.SendStatus(fiber.StatusOK)
}

// processTurn runs one conversational turn, containing any failure to the
// sender it belongs to
func (h *WebhookHandler) processTurn(from, messageID, body string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic while processing message from %s: %v", from, r)
		}
	}()

	if err := h.flow.ProcessMessage(context.Background(), from, messageID, body); err != nil {
		log.Printf("❌ Error processing message from %s: %v", from, err)
	}
}

// TestWebhookPayload simulates an inbound message without the Cloud API
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test messages (for development)
func (h *WebhookHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("🧪 Test webhook received from %s: %s", payload.From, payload.Message)

	messageID := "test-" + uuid.NewString()
	if err := h.flow.ProcessMessage(c.Context(), payload.From, messageID, payload.Message); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message_id": messageID,
	})
}
