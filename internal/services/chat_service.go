package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/FitSyncBack/internal/models"
)

type messageStore interface {
	Create(ctx context.Context, senderID, recipientID, content string) (*models.ChatMessage, error)
	ListBetween(ctx context.Context, userA, userB string, limit, offset int) ([]models.ChatMessage, int, error)
}

type userReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type ChatService struct {
	messageRepo messageStore
	userRepo    userReader
}

// ChatDelivery is what the hub needs to route a committed message: the
// stored entry plus its single recipient. The message is already durable by
// the time a delivery exists; pushing it is best-effort.
type ChatDelivery struct {
	Message     *models.ChatMessage
	RecipientID string
}

func NewChatService(messageRepo messageStore, userRepo userReader) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

func (s *ChatService) SendMessage(
	ctx context.Context,
	senderID string,
	role string,
	recipientID string,
	content string,
) (*ChatDelivery, error) {
	if !models.ValidRole(role) {
		return nil, ErrForbidden
	}
	if recipientID == "" || recipientID == senderID {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	message, err := s.messageRepo.Create(ctx, senderID, recipientID, trimmed)
	if err != nil {
		return nil, err
	}

	return &ChatDelivery{
		Message:     message,
		RecipientID: recipientID,
	}, nil
}

func (s *ChatService) ListMessages(
	ctx context.Context,
	actorID string,
	role string,
	otherUserID string,
	page int,
	limit int,
) ([]models.ChatMessage, int, error) {
	if !models.ValidRole(role) {
		return nil, 0, ErrForbidden
	}
	if otherUserID == "" || otherUserID == actorID || page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}

	return s.messageRepo.ListBetween(ctx, actorID, otherUserID, limit, (page-1)*limit)
}
