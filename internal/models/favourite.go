package models

import "time"

// Favourite is a saved customer→tradesman relationship, unique per
// pair.
type Favourite struct {
	ID            int       `json:"id"`
	CustomerID    int       `json:"customer_id"`
	TradesmanID   int       `json:"tradesman_id"`
	TradesmanName string    `json:"tradesman_name,omitempty"`
	Trade         *string   `json:"trade,omitempty"`
	Location      *string   `json:"location,omitempty"`
	ReviewRating  *float64  `json:"review_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
