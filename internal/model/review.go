package model

import "time"

// Review is a user's review of a restaurant.
//
// RestaurantID is a soft reference: nothing enforces that the restaurant
// exists when the review is written, and deleting a restaurant does not
// cascade to its reviews. The rating aggregator simply finds zero rows to
// update for an orphaned restaurant ID.
//
// Rating is validated to be 1–5 when the review is created. Updates merge
// whatever value the caller supplies without re-checking the range.
type Review struct {
	ID           string    `json:"_id"`
	RestaurantID string    `json:"restaurant_id"`
	UserID       string    `json:"user_id"`
	Rating       int       `json:"rating"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
