package model

import "time"

// Restaurant represents a listed restaurant.
//
// HygieneRating is the displayed rating and has two sources:
//   - set manually (an integer) by the creator or an admin at create/update
//   - overwritten with the one-decimal average of the restaurant's reviews
//     whenever a review is added or deleted
//
// Once reviews exist, a manually-set value survives only until the next
// review write. It's a *float64 because a restaurant whose last review is
// deleted goes back to having no rating at all (JSON null), which a plain
// float64 can't express.
//
// CreatedBy is the ID of the user who created the listing; it gates who may
// update or delete it (creator or admin).
type Restaurant struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Postcode      string    `json:"postcode"`
	HygieneRating *float64  `json:"hygiene_rating"`
	Cuisine       string    `json:"cuisine"`
	Tags          []string  `json:"tags"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RestaurantSummary is the trimmed projection returned by the cuisine search
// endpoint — just enough to render a result row.
type RestaurantSummary struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Cuisine       string   `json:"cuisine"`
	HygieneRating *float64 `json:"hygiene_rating"`
}
