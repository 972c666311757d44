package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

// Chat limits.
const (
	DefaultChatLimit = 50
	MaxChatLimit     = 200
	MaxChatRunes     = 500
)

// ChatService backs the public chat room.
type ChatService struct {
	chatRepo repositories.ChatRepository
	userRepo repositories.UserRepository
	now      func() time.Time
}

// NewChatService creates a new ChatService
func NewChatService(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, userRepo: userRepo, now: time.Now}
}

// Recent returns the newest messages first.
func (s *ChatService) Recent(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	if limit < 1 {
		limit = DefaultChatLimit
	}
	if limit > MaxChatLimit {
		limit = MaxChatLimit
	}
	msgs, err := s.chatRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat: %w", err)
	}
	return msgs, nil
}

// Post stores a message from userID. Blocked accounts cannot post.
func (s *ChatService) Post(ctx context.Context, userID primitive.ObjectID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n == 0 || n > MaxChatRunes {
		return nil, fmt.Errorf("%w: message must be 1 to %d characters", ErrInvalidInput, MaxChatRunes)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}
	msg := &models.ChatMessage{
		UserID:    userID,
		Author:    user.Email,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("post chat: %w", err)
	}
	return msg, nil
}
