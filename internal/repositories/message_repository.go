package repositories

import (
	"context"
	"database/sql"

	"tradeBack/internal/models"
)

type MessageRepository struct {
	DB *sql.DB
}

func (r *MessageRepository) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	query := `
INSERT INTO messages (chat_id, sender_id, receiver_id, content, created_at)
VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.DB.ExecContext(ctx, query, msg.ChatID, msg.SenderID, msg.ReceiverID, msg.Content, msg.CreatedAt)
	if err != nil {
		return models.Message{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Message{}, err
	}
	msg.ID = int(id)
	return msg, nil
}

// ListForChat returns a chat's messages oldest first; the id tiebreak
// preserves insertion order for same-timestamp messages.
func (r *MessageRepository) ListForChat(ctx context.Context, chatID int) ([]models.Message, error) {
	query := `
SELECT id, chat_id, sender_id, receiver_id, content, created_at
FROM messages
WHERE chat_id = ?
ORDER BY created_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
