package models

import "time"

const (
	NotificationMessage    = "message"
	NotificationJobRequest = "job_request"
	NotificationJobStatus  = "job_status"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
