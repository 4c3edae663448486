package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FitSyncBack/internal/models"
	"github.com/saeid-a/FitSyncBack/internal/services"
	"github.com/saeid-a/FitSyncBack/pkg/utils"
)

type stubChatService struct {
	listResult  []models.ChatMessage
	listTotal   int
	listErr     error
	lastActorID string
	lastRole    string
	lastOtherID string
	lastPage    int
	lastLimit   int
}

func (s *stubChatService) SendMessage(
	_ context.Context,
	senderID, role, recipientID, content string,
) (*services.ChatDelivery, error) {
	return nil, nil
}

func (s *stubChatService) ListMessages(
	_ context.Context,
	actorID, role, otherUserID string,
	page, limit int,
) ([]models.ChatMessage, int, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastOtherID = otherUserID
	s.lastPage = page
	s.lastLimit = limit
	return s.listResult, s.listTotal, s.listErr
}

func newChatApp(service *stubChatService, jwtSecret string) *fiber.App {
	handler := NewChatHandler(service, nil, jwtSecret)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "client")
		c.Locals("user_id", "client-2")
		return c.Next()
	})
	app.Get("/api/v1/messages/:userId", handler.GetMessages)
	return app
}

func TestGetMessagesForwardsPagination(t *testing.T) {
	service := &stubChatService{
		listResult: []models.ChatMessage{
			{ID: 1, SenderID: "coach-7", RecipientID: "client-2", Content: "Nice work", CreatedAt: time.Now()},
		},
		listTotal: 11,
	}
	app := newChatApp(service, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/coach-7?page=2&limit=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != "client-2" || service.lastOtherID != "coach-7" {
		t.Fatalf("unexpected pair: %q %q", service.lastActorID, service.lastOtherID)
	}
	if service.lastPage != 2 || service.lastLimit != 5 {
		t.Fatalf("unexpected pagination: page %d limit %d", service.lastPage, service.lastLimit)
	}

	var payload struct {
		Messages   []map[string]any `json:"messages"`
		Pagination map[string]any   `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(payload.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(payload.Messages))
	}
	if payload.Pagination["total"] != float64(11) {
		t.Fatalf("unexpected total: %v", payload.Pagination["total"])
	}
}

func TestGetMessagesClampsLimit(t *testing.T) {
	service := &stubChatService{}
	app := newChatApp(service, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/coach-7?limit=500", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastLimit != maxPageLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxPageLimit, service.lastLimit)
	}
	if service.lastPage != 1 {
		t.Fatalf("expected default page 1, got %d", service.lastPage)
	}
}

func TestGetMessagesMapsUserNotFound(t *testing.T) {
	service := &stubChatService{listErr: services.ErrUserNotFound}
	app := newChatApp(service, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/ghost", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebSocketAuthRequiresUpgrade(t *testing.T) {
	handler := NewChatHandler(&stubChatService{}, nil, "secret")

	app := fiber.New()
	app.Get("/api/v1/ws", handler.WebSocketAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
}

func TestWebSocketAuthRejectsBadToken(t *testing.T) {
	handler := NewChatHandler(&stubChatService{}, nil, "secret")

	app := fiber.New()
	app.Get("/api/v1/ws", handler.WebSocketAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token=not-a-token", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestWebSocketAuthAcceptsQueryToken(t *testing.T) {
	const secret = "secret"
	token, err := utils.GenerateToken("client-2", "client", secret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	handler := NewChatHandler(&stubChatService{}, nil, secret)

	var gotUserID, gotRole string
	app := fiber.New()
	app.Get("/api/v1/ws", handler.WebSocketAuth, func(c *fiber.Ctx) error {
		gotUserID, _ = c.Locals("user_id").(string)
		gotRole, _ = c.Locals("role").(string)
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+token, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if gotUserID != "client-2" || gotRole != "client" {
		t.Fatalf("unexpected claims forwarded: %q %q", gotUserID, gotRole)
	}
}
