package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/FitSyncBack/internal/models"
)

type stubMessageRepo struct {
	created    []models.ChatMessage
	createErr  error
	listResult []models.ChatMessage
	listTotal  int
	listErr    error
	lastA      string
	lastB      string
	lastLimit  int
	lastOffset int
}

func (r *stubMessageRepo) Create(_ context.Context, senderID, recipientID, content string) (*models.ChatMessage, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	message := models.ChatMessage{
		ID:          int64(len(r.created) + 1),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	r.created = append(r.created, message)
	return &message, nil
}

func (r *stubMessageRepo) ListBetween(_ context.Context, userA, userB string, limit, offset int) ([]models.ChatMessage, int, error) {
	r.lastA = userA
	r.lastB = userB
	r.lastLimit = limit
	r.lastOffset = offset
	return r.listResult, r.listTotal, r.listErr
}

type stubUserReader struct {
	users map[string]*models.User
	err   error
}

func (r *stubUserReader) GetByID(_ context.Context, id string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func chatFixture() (*ChatService, *stubMessageRepo) {
	messageRepo := &stubMessageRepo{}
	userRepo := &stubUserReader{users: map[string]*models.User{
		"coach-1":  {ID: "coach-1", Role: models.RoleCoach},
		"client-1": {ID: "client-1", Role: models.RoleClient},
	}}
	return NewChatService(messageRepo, userRepo), messageRepo
}

func TestSendMessagePersistsAndTargetsRecipient(t *testing.T) {
	service, messageRepo := chatFixture()

	delivery, err := service.SendMessage(context.Background(), "client-1", models.RoleClient, "coach-1", "  felt strong today  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if delivery.RecipientID != "coach-1" {
		t.Fatalf("expected recipient coach-1, got %q", delivery.RecipientID)
	}
	if delivery.Message.Content != "felt strong today" {
		t.Fatalf("content not trimmed: %q", delivery.Message.Content)
	}
	if len(messageRepo.created) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(messageRepo.created))
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	service, messageRepo := chatFixture()

	_, err := service.SendMessage(context.Background(), "client-1", models.RoleClient, "coach-1", "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(messageRepo.created) != 0 {
		t.Fatalf("empty message was stored")
	}
}

func TestSendMessageRejectsSelfAndUnknownRecipient(t *testing.T) {
	service, _ := chatFixture()
	ctx := context.Background()

	if _, err := service.SendMessage(ctx, "client-1", models.RoleClient, "client-1", "hi"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-send, got %v", err)
	}
	if _, err := service.SendMessage(ctx, "client-1", models.RoleClient, "ghost", "hi"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSendMessageRequiresSelectedRole(t *testing.T) {
	service, _ := chatFixture()

	if _, err := service.SendMessage(context.Background(), "client-1", "", "coach-1", "hi"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListMessagesPaginates(t *testing.T) {
	service, messageRepo := chatFixture()
	messageRepo.listResult = []models.ChatMessage{{ID: 1}, {ID: 2}}
	messageRepo.listTotal = 12

	messages, total, err := service.ListMessages(context.Background(), "coach-1", models.RoleCoach, "client-1", 3, 2)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 2 || total != 12 {
		t.Fatalf("unexpected page: %d messages, total %d", len(messages), total)
	}
	if messageRepo.lastLimit != 2 || messageRepo.lastOffset != 4 {
		t.Fatalf("unexpected limit/offset: %d/%d", messageRepo.lastLimit, messageRepo.lastOffset)
	}
}
