package models

import "time"

// JobReview is the customer's rating of a completed job request.
// At most one review exists per request and creation is final.
type JobReview struct {
	ID           int       `json:"id"`
	JobRequestID int       `json:"job_request_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	PhotoPath    *string   `json:"photo_path,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
