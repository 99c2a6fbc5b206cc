package models

import "time"

// OpenJobCompletion tracks a tradesman completing a customer-posted
// open job. One completion per (job, tradesman); the confirmation
// handshake mirrors JobRequest with the roles swapped.
type OpenJobCompletion struct {
	ID               int           `json:"id"`
	JobID            int           `json:"job_id"`
	JobTitle         string        `json:"job_title,omitempty"`
	JobOwnerID       int           `json:"job_owner_id,omitempty"`
	TradesmanID      int           `json:"tradesman_id"`
	TradesmanName    string        `json:"tradesman_name,omitempty"`
	Status           RequestStatus `json:"status"`
	ConfirmationCode *string       `json:"confirmation_code,omitempty"`
	GeneratedAt      *time.Time    `json:"confirmation_generated_at,omitempty"`
	CompletedAt      time.Time     `json:"completed_at"`
	ConfirmedAt      *time.Time    `json:"confirmed_at,omitempty"`
}
