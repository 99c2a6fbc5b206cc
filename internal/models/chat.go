package models

import "time"

// ChatStatus is the closed set of chat session states.
type ChatStatus string

const (
	ChatActive  ChatStatus = "active"
	ChatJobDone ChatStatus = "job_done"
)

// UserPair is an unordered pair of user ids with a canonical storage
// order (lower id first). The ordering exists only to make the pair
// key unique; message direction is carried by sender/receiver.
type UserPair struct {
	User1ID int
	User2ID int
}

func NewUserPair(a, b int) UserPair {
	if b < a {
		a, b = b, a
	}
	return UserPair{User1ID: a, User2ID: b}
}

func (p UserPair) Contains(userID int) bool {
	return userID == p.User1ID || userID == p.User2ID
}

// Other returns the counterpart of userID within the pair.
func (p UserPair) Other(userID int) int {
	if userID == p.User1ID {
		return p.User2ID
	}
	return p.User1ID
}

// Chat is a two-party conversation session. A closed (job_done) chat
// is immutable history; a later conversation between the same users
// gets a fresh Chat.
type Chat struct {
	ID          int        `json:"id"`
	User1ID     int        `json:"user1_id"`
	User2ID     int        `json:"user2_id"`
	Status      ChatStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (c Chat) Pair() UserPair {
	return NewUserPair(c.User1ID, c.User2ID)
}

// ChatSummary pairs an active chat with its most recent message for
// conversation lists.
type ChatSummary struct {
	Chat        Chat     `json:"chat"`
	LastMessage *Message `json:"last_message,omitempty"`
}
