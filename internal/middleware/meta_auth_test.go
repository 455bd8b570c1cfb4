package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignedApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhook", ValidateMetaSignature(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func signBody(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

func TestValidSignaturePasses(t *testing.T) {
	t.Setenv("APP_SECRET", "test-secret")
	app := newSignedApp()

	body := []byte(`{"entry":[]}`)
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hub-Signature-256", signBody("test-secret", body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestInvalidSignatureRejected(t *testing.T) {
	t.Setenv("APP_SECRET", "test-secret")
	app := newSignedApp()

	body := []byte(`{"entry":[]}`)
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", signBody("wrong-secret", body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMissingSignatureRejected(t *testing.T) {
	t.Setenv("APP_SECRET", "test-secret")
	app := newSignedApp()

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader([]byte(`{}`)))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMissingSecretIsServerError(t *testing.T) {
	t.Setenv("APP_SECRET", "")
	app := newSignedApp()

	body := []byte(`{}`)
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", signBody("anything", body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
