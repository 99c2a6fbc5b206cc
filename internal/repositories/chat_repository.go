package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tradeBack/internal/models"
)

type ChatRepository struct {
	DB *sql.DB
}

// CreateActive opens a new chat for the canonical pair. The unique key
// on (user1_id, user2_id, active_key) — active_key is 1 while the chat
// is active and NULL once closed — guarantees at most one active chat
// per pair; the loser of a concurrent create gets
// ErrDuplicateActiveChat and must retry as a lookup.
func (r *ChatRepository) CreateActive(ctx context.Context, pair models.UserPair, createdAt time.Time) (models.Chat, error) {
	insertQuery := `INSERT INTO chats (user1_id, user2_id, status, active_key, created_at) VALUES (?, ?, ?, 1, ?)`
	result, err := r.DB.ExecContext(ctx, insertQuery, pair.User1ID, pair.User2ID, models.ChatActive, createdAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.Chat{}, models.ErrDuplicateActiveChat
		}
		return models.Chat{}, err
	}
	chatID, err := result.LastInsertId()
	if err != nil {
		return models.Chat{}, err
	}
	return models.Chat{
		ID:        int(chatID),
		User1ID:   pair.User1ID,
		User2ID:   pair.User2ID,
		Status:    models.ChatActive,
		CreatedAt: createdAt,
	}, nil
}

// ActiveChatForPair looks up the single active chat for an unordered
// pair. The pair is already canonical, so one ordering suffices.
func (r *ChatRepository) ActiveChatForPair(ctx context.Context, pair models.UserPair) (models.Chat, error) {
	var chat models.Chat
	query := `
SELECT id, user1_id, user2_id, status, created_at, completed_at
FROM chats
WHERE user1_id = ? AND user2_id = ? AND status = ?
LIMIT 1
	`
	err := r.DB.QueryRowContext(ctx, query, pair.User1ID, pair.User2ID, models.ChatActive).Scan(
		&chat.ID, &chat.User1ID, &chat.User2ID, &chat.Status, &chat.CreatedAt, &chat.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Chat{}, models.ErrNoRecord
		}
		return models.Chat{}, err
	}
	return chat, nil
}

func (r *ChatRepository) GetChatByID(ctx context.Context, id int) (models.Chat, error) {
	var chat models.Chat
	query := `SELECT id, user1_id, user2_id, status, created_at, completed_at FROM chats WHERE id = ?`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&chat.ID, &chat.User1ID, &chat.User2ID, &chat.Status, &chat.CreatedAt, &chat.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Chat{}, models.ErrChatNotFound
		}
		return models.Chat{}, err
	}
	return chat, nil
}

// CloseChat marks an active chat as job_done, clearing active_key so
// the pair may open a fresh chat later. Returns ErrInvalidState when
// the chat is already closed.
func (r *ChatRepository) CloseChat(ctx context.Context, chatID int, completedAt time.Time) error {
	query := `UPDATE chats SET status = ?, active_key = NULL, completed_at = ? WHERE id = ? AND status = ?`
	res, err := r.DB.ExecContext(ctx, query, models.ChatJobDone, completedAt, chatID, models.ChatActive)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInvalidState
	}
	return nil
}

// ActiveChatsForUser returns the user's active chats with their most
// recent message, newest chat first.
func (r *ChatRepository) ActiveChatsForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	query := `
WITH last_messages AS (
    SELECT m.chat_id, m.id, m.sender_id, m.receiver_id, m.content, m.created_at
    FROM messages m
    JOIN (
        SELECT chat_id, MAX(id) AS max_id
        FROM messages
        GROUP BY chat_id
    ) t ON t.chat_id = m.chat_id AND t.max_id = m.id
)
SELECT c.id, c.user1_id, c.user2_id, c.status, c.created_at, c.completed_at,
       lm.id, lm.sender_id, lm.receiver_id, lm.content, lm.created_at
FROM chats c
LEFT JOIN last_messages lm ON lm.chat_id = c.id
WHERE c.status = ? AND (c.user1_id = ? OR c.user2_id = ?)
ORDER BY c.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, models.ChatActive, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.ChatSummary{}
	for rows.Next() {
		var s models.ChatSummary
		var msgID, senderID, receiverID sql.NullInt64
		var content sql.NullString
		var msgAt sql.NullTime
		err := rows.Scan(
			&s.Chat.ID, &s.Chat.User1ID, &s.Chat.User2ID, &s.Chat.Status, &s.Chat.CreatedAt, &s.Chat.CompletedAt,
			&msgID, &senderID, &receiverID, &content, &msgAt,
		)
		if err != nil {
			return nil, err
		}
		if msgID.Valid {
			s.LastMessage = &models.Message{
				ID:         int(msgID.Int64),
				ChatID:     s.Chat.ID,
				SenderID:   int(senderID.Int64),
				ReceiverID: int(receiverID.Int64),
				Content:    content.String,
				CreatedAt:  msgAt.Time,
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
