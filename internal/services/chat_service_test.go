package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradeBack/internal/models"
)

type stubChatStore struct {
	nextID  int
	chats   map[int]*models.Chat
	creates int
}

func newStubChatStore() *stubChatStore {
	return &stubChatStore{chats: map[int]*models.Chat{}}
}

func (s *stubChatStore) ActiveChatForPair(_ context.Context, pair models.UserPair) (models.Chat, error) {
	for _, chat := range s.chats {
		if chat.Status == models.ChatActive && chat.User1ID == pair.User1ID && chat.User2ID == pair.User2ID {
			return *chat, nil
		}
	}
	return models.Chat{}, models.ErrNoRecord
}

func (s *stubChatStore) CreateActive(_ context.Context, pair models.UserPair, createdAt time.Time) (models.Chat, error) {
	for _, chat := range s.chats {
		if chat.Status == models.ChatActive && chat.User1ID == pair.User1ID && chat.User2ID == pair.User2ID {
			return models.Chat{}, models.ErrDuplicateActiveChat
		}
	}
	s.nextID++
	s.creates++
	chat := &models.Chat{
		ID:        s.nextID,
		User1ID:   pair.User1ID,
		User2ID:   pair.User2ID,
		Status:    models.ChatActive,
		CreatedAt: createdAt,
	}
	s.chats[chat.ID] = chat
	return *chat, nil
}

func (s *stubChatStore) GetChatByID(_ context.Context, id int) (models.Chat, error) {
	chat, ok := s.chats[id]
	if !ok {
		return models.Chat{}, models.ErrChatNotFound
	}
	return *chat, nil
}

func (s *stubChatStore) CloseChat(_ context.Context, chatID int, completedAt time.Time) error {
	chat, ok := s.chats[chatID]
	if !ok || chat.Status != models.ChatActive {
		return models.ErrInvalidState
	}
	chat.Status = models.ChatJobDone
	chat.CompletedAt = &completedAt
	return nil
}

func (s *stubChatStore) ActiveChatsForUser(_ context.Context, userID int) ([]models.ChatSummary, error) {
	out := []models.ChatSummary{}
	for _, chat := range s.chats {
		if chat.Status == models.ChatActive && chat.Pair().Contains(userID) {
			out = append(out, models.ChatSummary{Chat: *chat})
		}
	}
	return out, nil
}

type stubMessageStore struct {
	messages []models.Message
}

func (s *stubMessageStore) CreateMessage(_ context.Context, msg models.Message) (models.Message, error) {
	msg.ID = len(s.messages) + 1
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *stubMessageStore) ListForChat(_ context.Context, chatID int) ([]models.Message, error) {
	out := []models.Message{}
	for _, msg := range s.messages {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func newChatService() (*ChatService, *stubChatStore, *stubMessageStore) {
	chats := newStubChatStore()
	messages := &stubMessageStore{}
	return &ChatService{Chats: chats, Messages: messages, Notifier: &stubNotifier{}}, chats, messages
}

func TestOpenOrResumeCanonicalizesPair(t *testing.T) {
	svc, chats, _ := newChatService()

	first, err := svc.OpenOrResume(context.Background(), 3, 7)
	if err != nil {
		t.Fatalf("OpenOrResume error: %v", err)
	}
	if first.User1ID != 3 || first.User2ID != 7 {
		t.Fatalf("pair stored as (%d,%d), want (3,7)", first.User1ID, first.User2ID)
	}

	second, err := svc.OpenOrResume(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("reversed OpenOrResume error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("reversed pair got chat %d, want %d", second.ID, first.ID)
	}
	if chats.creates != 1 {
		t.Fatalf("creates = %d, want 1", chats.creates)
	}
}

// racingChatStore simulates losing a concurrent create: the first
// lookup sees no chat yet, the insert then hits the unique key because
// another request won in between.
type racingChatStore struct {
	*stubChatStore
	missedLookup bool
	createTries  int
}

func (s *racingChatStore) ActiveChatForPair(ctx context.Context, pair models.UserPair) (models.Chat, error) {
	if !s.missedLookup {
		s.missedLookup = true
		return models.Chat{}, models.ErrNoRecord
	}
	return s.stubChatStore.ActiveChatForPair(ctx, pair)
}

func (s *racingChatStore) CreateActive(context.Context, models.UserPair, time.Time) (models.Chat, error) {
	s.createTries++
	return models.Chat{}, models.ErrDuplicateActiveChat
}

func TestOpenOrResumeLosingCreateFallsBackToLookup(t *testing.T) {
	inner := newStubChatStore()
	winner, err := inner.CreateActive(context.Background(), models.NewUserPair(3, 7), time.Now())
	if err != nil {
		t.Fatalf("seed chat error: %v", err)
	}

	store := &racingChatStore{stubChatStore: inner}
	svc := &ChatService{Chats: store, Messages: &stubMessageStore{}, Notifier: &stubNotifier{}}

	chat, err := svc.OpenOrResume(context.Background(), 3, 7)
	if err != nil {
		t.Fatalf("OpenOrResume error: %v", err)
	}
	if chat.ID != winner.ID {
		t.Fatalf("loser got chat %d, want winner's %d", chat.ID, winner.ID)
	}
	if chat.Status != models.ChatActive {
		t.Fatalf("status = %s, want active", chat.Status)
	}
	if store.createTries != 1 {
		t.Fatalf("createTries = %d, want 1", store.createTries)
	}
	if inner.creates != 1 {
		t.Fatalf("exactly one active chat must exist for the pair, creates = %d", inner.creates)
	}
}

func TestOpenOrResumeRejectsSelf(t *testing.T) {
	svc, _, _ := newChatService()

	_, err := svc.OpenOrResume(context.Background(), 5, 5)
	if !errors.Is(err, models.ErrSameUser) {
		t.Fatalf("err = %v, want ErrSameUser", err)
	}
}

func TestMarkJobDoneClosesAndAllowsReopen(t *testing.T) {
	svc, _, _ := newChatService()
	chat, _ := svc.OpenOrResume(context.Background(), 3, 7)
	if _, err := svc.PostMessage(context.Background(), chat.ID, 3, 7, "see you tomorrow"); err != nil {
		t.Fatalf("PostMessage error: %v", err)
	}

	if err := svc.MarkJobDone(context.Background(), chat.ID, 3); err != nil {
		t.Fatalf("MarkJobDone error: %v", err)
	}

	// Closing twice is a caller error.
	if err := svc.MarkJobDone(context.Background(), chat.ID, 7); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("second close: err = %v, want ErrInvalidState", err)
	}

	// The pair can start over with a fresh session.
	reopened, err := svc.OpenOrResume(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	if reopened.ID == chat.ID {
		t.Fatal("reopen returned the closed chat instead of a fresh one")
	}
	if reopened.Status != models.ChatActive {
		t.Fatalf("reopened status = %s, want active", reopened.Status)
	}

	// History stays attached to the closed chat.
	history, err := svc.GetMessages(context.Background(), chat.ID, 3)
	if err != nil {
		t.Fatalf("GetMessages on closed chat error: %v", err)
	}
	if len(history) != 1 || history[0].Content != "see you tomorrow" {
		t.Fatalf("closed chat history = %+v, want the original message", history)
	}
	fresh, err := svc.GetMessages(context.Background(), reopened.ID, 3)
	if err != nil {
		t.Fatalf("GetMessages on fresh chat error: %v", err)
	}
	if len(fresh) != 0 {
		t.Fatalf("fresh chat inherited %d messages", len(fresh))
	}
}

func TestMarkJobDoneRequiresParticipant(t *testing.T) {
	svc, _, _ := newChatService()
	chat, _ := svc.OpenOrResume(context.Background(), 3, 7)

	if err := svc.MarkJobDone(context.Background(), chat.ID, 99); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestPostMessageValidation(t *testing.T) {
	svc, _, _ := newChatService()
	chat, _ := svc.OpenOrResume(context.Background(), 3, 7)

	if _, err := svc.PostMessage(context.Background(), chat.ID, 3, 7, "  "); !errors.Is(err, models.ErrEmptyMessage) {
		t.Fatalf("empty content: err = %v, want ErrEmptyMessage", err)
	}
	if _, err := svc.PostMessage(context.Background(), chat.ID, 99, 7, "hi"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("outsider sender: err = %v, want ErrForbidden", err)
	}

	msg, err := svc.PostMessage(context.Background(), chat.ID, 3, 7, "hi")
	if err != nil {
		t.Fatalf("PostMessage error: %v", err)
	}
	if msg.ChatID != chat.ID || msg.SenderID != 3 || msg.ReceiverID != 7 {
		t.Fatalf("stored message routing wrong: %+v", msg)
	}
}

func TestPostMessageToClosedChat(t *testing.T) {
	svc, _, _ := newChatService()
	chat, _ := svc.OpenOrResume(context.Background(), 3, 7)
	if err := svc.MarkJobDone(context.Background(), chat.ID, 3); err != nil {
		t.Fatalf("MarkJobDone error: %v", err)
	}

	if _, err := svc.PostMessage(context.Background(), chat.ID, 3, 7, "hello again"); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestGetMessagesRequiresParticipant(t *testing.T) {
	svc, _, _ := newChatService()
	chat, _ := svc.OpenOrResume(context.Background(), 3, 7)
	if _, err := svc.PostMessage(context.Background(), chat.ID, 3, 7, "hi"); err != nil {
		t.Fatalf("PostMessage error: %v", err)
	}

	if _, err := svc.GetMessages(context.Background(), chat.ID, 99); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	messages, err := svc.GetMessages(context.Background(), chat.ID, 7)
	if err != nil {
		t.Fatalf("GetMessages error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(messages))
	}
}
