package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradeBack/internal/models"
)

// ChatStore is the persistence surface of the chat session lifecycle.
type ChatStore interface {
	ActiveChatForPair(ctx context.Context, pair models.UserPair) (models.Chat, error)
	CreateActive(ctx context.Context, pair models.UserPair, createdAt time.Time) (models.Chat, error)
	GetChatByID(ctx context.Context, id int) (models.Chat, error)
	CloseChat(ctx context.Context, chatID int, completedAt time.Time) error
	ActiveChatsForUser(ctx context.Context, userID int) ([]models.ChatSummary, error)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, msg models.Message) (models.Message, error)
	ListForChat(ctx context.Context, chatID int) ([]models.Message, error)
}

// ChatService keeps at most one active conversation per unordered user
// pair. Closed chats stay behind as immutable history; the next
// OpenOrResume for the pair starts a fresh one.
type ChatService struct {
	Chats    ChatStore
	Messages MessageStore
	Notifier Notifier
}

// OpenOrResume returns the pair's active chat, creating it when none
// exists. The storage-level unique key resolves concurrent creates;
// the loser retries as a lookup.
func (s *ChatService) OpenOrResume(ctx context.Context, userA, userB int) (models.Chat, error) {
	if userA == userB {
		return models.Chat{}, models.ErrSameUser
	}
	pair := models.NewUserPair(userA, userB)

	chat, err := s.Chats.ActiveChatForPair(ctx, pair)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, models.ErrNoRecord) {
		return models.Chat{}, err
	}

	chat, err = s.Chats.CreateActive(ctx, pair, time.Now())
	if errors.Is(err, models.ErrDuplicateActiveChat) {
		return s.Chats.ActiveChatForPair(ctx, pair)
	}
	return chat, err
}

// PostMessage appends a message to an active chat and notifies the
// receiver. Sender and receiver must be the chat's two participants.
func (s *ChatService) PostMessage(ctx context.Context, chatID, senderID, receiverID int, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, models.ErrEmptyMessage
	}

	chat, err := s.Chats.GetChatByID(ctx, chatID)
	if err != nil {
		return models.Message{}, err
	}
	if chat.Status != models.ChatActive {
		return models.Message{}, models.ErrInvalidState
	}
	pair := chat.Pair()
	if senderID == receiverID || !pair.Contains(senderID) || !pair.Contains(receiverID) {
		return models.Message{}, models.ErrForbidden
	}

	msg, err := s.Messages.CreateMessage(ctx, models.Message{
		ChatID:     chat.ID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return models.Message{}, err
	}

	s.Notifier.Notify(ctx, receiverID, models.NotificationMessage,
		"You have a new message",
		fmt.Sprintf("/chats/%d", chat.ID))
	return msg, nil
}

// MarkJobDone closes an active chat on behalf of one of its
// participants. Closing an already closed chat is a caller error and
// is rejected without touching the row.
func (s *ChatService) MarkJobDone(ctx context.Context, chatID, actorID int) error {
	chat, err := s.Chats.GetChatByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.Pair().Contains(actorID) {
		return models.ErrForbidden
	}
	if chat.Status != models.ChatActive {
		return models.ErrInvalidState
	}
	return s.Chats.CloseChat(ctx, chat.ID, time.Now())
}

// ListActiveChatsFor returns the user's active chats with their most
// recent message, newest chat first.
func (s *ChatService) ListActiveChatsFor(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	return s.Chats.ActiveChatsForUser(ctx, userID)
}

// GetMessages returns a chat's history, oldest first, to one of its
// participants.
func (s *ChatService) GetMessages(ctx context.Context, chatID, actorID int) ([]models.Message, error) {
	chat, err := s.Chats.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.Pair().Contains(actorID) {
		return nil, models.ErrForbidden
	}
	return s.Messages.ListForChat(ctx, chat.ID)
}
