package models

import "time"

// Job is a service offering posted by a tradesman or an open-ended
// posting by a customer looking for a trade.
type Job struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	HourlyRate  *float64  `json:"hourly_rate,omitempty"`
	Trade       *string   `json:"trade,omitempty"`
	OwnerID     int       `json:"owner_id"`
	OwnerName   string    `json:"owner_name,omitempty"`
	OwnerRole   string    `json:"owner_role,omitempty"`
	DatePosted  time.Time `json:"date_posted"`
}
