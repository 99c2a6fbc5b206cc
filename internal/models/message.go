package models

import "time"

// Message belongs to exactly one chat; sender and receiver are the
// chat's two participants.
type Message struct {
	ID         int       `json:"id"`
	ChatID     int       `json:"chat_id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
