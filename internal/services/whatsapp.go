package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sarwanshoes/store-backend/internal/catalog"
)

// maxCaptionLen is the WhatsApp image caption limit
const maxCaptionLen = 3000

// Button is one reply button of an interactive message
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Messenger is the outbound message channel the conversation flow sends
// through. The production implementation is WhatsAppService; tests use a
// recorder.
type Messenger interface {
	SendText(to, body string) error
	SendImage(to, imageURL, caption string) error
	SendInteractiveButtons(to, body string, buttons []Button) error
}

var (
	messengerInstance Messenger
	messengerMu       sync.RWMutex
)

// SetMessenger sets the global messenger instance (call from main.go)
func SetMessenger(m Messenger) {
	messengerMu.Lock()
	defer messengerMu.Unlock()
	messengerInstance = m
}

// GetMessenger returns the global messenger instance
func GetMessenger() Messenger {
	messengerMu.RLock()
	defer messengerMu.RUnlock()
	return messengerInstance
}

// WhatsAppService sends messages through the Meta WhatsApp Cloud API
type WhatsAppService struct {
	client        *http.Client
	apiBase       string
	phoneNumberID string
	token         string
}

// NewWhatsAppService creates a Cloud API client from the environment
func NewWhatsAppService() (*WhatsAppService, error) {
	token := os.Getenv("WHATSAPP_TOKEN")
	phoneNumberID := os.Getenv("PHONE_NUMBER_ID")
	if token == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("missing WhatsApp credentials in environment variables")
	}

	apiBase := os.Getenv("WHATSAPP_API_BASE")
	if apiBase == "" {
		apiBase = "https://graph.facebook.com/v19.0"
	}

	return &WhatsAppService{
		client:        &http.Client{Timeout: 10 * time.Second},
		apiBase:       apiBase,
		phoneNumberID: phoneNumberID,
		token:         token,
	}, nil
}

// sendMessage posts one message payload to the Cloud API
func (w *WhatsAppService) sendMessage(payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", w.apiBase, w.phoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		log.Printf("❌ WhatsApp API error: %v", err)
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("❌ WhatsApp API error: status %d: %s", resp.StatusCode, respBody)
		return fmt.Errorf("whatsapp send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendText sends a plain text message
func (w *WhatsAppService) SendText(to, body string) error {
	return w.sendMessage(map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	})
}

// SendImage sends an image with an optional caption. WhatsApp fetches the
// image itself, so URLs it cannot reach are replaced with the fallback.
func (w *WhatsAppService) SendImage(to, imageURL, caption string) error {
	finalURL := SanitizeImageURL(imageURL)
	if finalURL != imageURL {
		log.Printf("⚠️  Using fallback image for WhatsApp (original: %q)", imageURL)
	}

	return w.sendMessage(map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "image",
		"image": map[string]string{
			"link":    finalURL,
			"caption": TruncateCaption(caption),
		},
	})
}

// SendInteractiveButtons sends a message with reply buttons
func (w *WhatsAppService) SendInteractiveButtons(to, body string, buttons []Button) error {
	actions := make([]map[string]interface{}, 0, len(buttons))
	for i, btn := range buttons {
		id := btn.ID
		if id == "" {
			id = fmt.Sprintf("btn%d", i+1)
		}
		actions = append(actions, map[string]interface{}{
			"type": "reply",
			"reply": map[string]string{
				"id":    id,
				"title": btn.Title,
			},
		})
	}

	return w.sendMessage(map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type":   "button",
			"body":   map[string]string{"text": body},
			"action": map[string]interface{}{"buttons": actions},
		},
	})
}

// SanitizeImageURL substitutes non-public image URLs with the fallback
func SanitizeImageURL(imageURL string) string {
	if imageURL == "" || !strings.HasPrefix(imageURL, "https") || strings.Contains(imageURL, "localhost") {
		return catalog.FallbackImage
	}
	return imageURL
}

// TruncateCaption caps a caption at the WhatsApp limit
func TruncateCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) > maxCaptionLen {
		return string(runes[:maxCaptionLen])
	}
	return caption
}
