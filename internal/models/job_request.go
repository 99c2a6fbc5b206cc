package models

import "time"

// RequestStatus is the closed set of job request lifecycle states.
// StatusInProgress and StatusCancelled are declared and reachable but
// no exposed operation sets them.
type RequestStatus string

const (
	StatusPending              RequestStatus = "pending"
	StatusInProgress           RequestStatus = "in_progress"
	StatusAwaitingConfirmation RequestStatus = "awaiting_confirmation"
	StatusCompleted            RequestStatus = "completed"
	StatusCancelled            RequestStatus = "cancelled"
)

// JobRequest tracks a customer's request against a tradesman's job,
// including the completion/confirmation handshake.
type JobRequest struct {
	ID               int           `json:"id"`
	JobID            int           `json:"job_id"`
	JobTitle         string        `json:"job_title,omitempty"`
	JobOwnerID       int           `json:"job_owner_id,omitempty"`
	CustomerID       int           `json:"customer_id"`
	CustomerName     string        `json:"customer_name,omitempty"`
	Message          string        `json:"message"`
	Status           RequestStatus `json:"status"`
	ConfirmationCode *string       `json:"confirmation_code,omitempty"`
	DateRequested    time.Time     `json:"date_requested"`
	GeneratedAt      *time.Time    `json:"confirmation_generated_at,omitempty"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
	ConfirmedAt      *time.Time    `json:"confirmed_at,omitempty"`
}

// JobRequestImage is an optional photo attached by the customer when
// requesting the job.
type JobRequestImage struct {
	ID           int       `json:"id"`
	JobRequestID int       `json:"job_request_id"`
	ImagePath    string    `json:"image_path"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// MarkCompleteResult carries the confirmation code back to the caller.
// AlreadyConfirmed is set when the request was completed earlier and
// the call was a no-op.
type MarkCompleteResult struct {
	Code             string `json:"confirmation_code"`
	AlreadyConfirmed bool   `json:"already_confirmed"`
}
