package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/model"
	"github.com/sakif/belfast-eats/internal/repository"
)

var _ repository.RestaurantRepository = (*DB)(nil)

const restaurantColumns = `id, name, address, postcode, hygiene_rating, cuisine, tags, created_by, created_at, updated_at`

// CreateRestaurant inserts a new restaurant, generating its ID and timestamps.
func (db *DB) CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	restaurant.ID = xid.New().String()

	now := time.Now().UTC()
	restaurant.CreatedAt = now
	restaurant.UpdatedAt = now

	tags, err := encodeTags(restaurant.Tags)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO restaurants (id, name, address, postcode, hygiene_rating, cuisine, tags, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		restaurant.ID,
		restaurant.Name,
		restaurant.Address,
		restaurant.Postcode,
		restaurant.HygieneRating,
		restaurant.Cuisine,
		tags,
		restaurant.CreatedBy,
		restaurant.CreatedAt,
		restaurant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating restaurant: %w", err)
	}

	return nil
}

// GetRestaurantByID retrieves a single restaurant by its ID.
func (db *DB) GetRestaurantByID(ctx context.Context, id string) (*model.Restaurant, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = ?`, id)

	restaurant, err := scanRestaurant(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("restaurant", id)
		}
		return nil, fmt.Errorf("sqlite: getting restaurant %s: %w", id, err)
	}

	return restaurant, nil
}

// ListRestaurants returns every restaurant, newest first. The frontend paginates and
// sorts client-side, so there is no LIMIT here.
func (db *DB) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing restaurants: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

// UpdateRestaurant overwrites the mutable document fields and refreshes updated_at.
// Returns NotFound via RowsAffected when the id doesn't exist.
func (db *DB) UpdateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	restaurant.UpdatedAt = time.Now().UTC()

	tags, err := encodeTags(restaurant.Tags)
	if err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE restaurants
		 SET name = ?, address = ?, postcode = ?, hygiene_rating = ?, cuisine = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		restaurant.Name,
		restaurant.Address,
		restaurant.Postcode,
		restaurant.HygieneRating,
		restaurant.Cuisine,
		tags,
		restaurant.UpdatedAt,
		restaurant.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating restaurant %s: %w", restaurant.ID, err)
	}

	return rowsAffectedOrNotFound(result, "restaurant", restaurant.ID)
}

// DeleteRestaurant removes a restaurant. Its reviews are left untouched — they hold a
// soft reference and simply become orphans.
func (db *DB) DeleteRestaurant(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM restaurants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting restaurant %s: %w", id, err)
	}

	return rowsAffectedOrNotFound(result, "restaurant", id)
}

// SearchByCuisine matches the cuisine column case-insensitively by
// substring, returning the summary projection.
func (db *DB) SearchByCuisine(ctx context.Context, cuisine string) ([]model.RestaurantSummary, error) {
	// LIKE is case-insensitive for ASCII in SQLite by default; the
	// instr/lower pair makes the substring semantics explicit.
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, cuisine, hygiene_rating
		 FROM restaurants
		 WHERE instr(lower(cuisine), lower(?)) > 0
		 ORDER BY name`,
		cuisine,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching restaurants by cuisine: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.RestaurantSummary, 0)
	for rows.Next() {
		var s model.RestaurantSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Cuisine, &s.HygieneRating); err != nil {
			return nil, fmt.Errorf("sqlite: scanning restaurant summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating restaurant summaries: %w", err)
	}

	return summaries, nil
}

// ListByMinRating returns restaurants rated at least min. NULL ratings never
// satisfy >= in SQL, so unrated restaurants are excluded — same as the
// document-store $gte this mirrors.
func (db *DB) ListByMinRating(ctx context.Context, min int) ([]model.Restaurant, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants
		 WHERE hygiene_rating >= ?
		 ORDER BY hygiene_rating DESC`,
		min,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing restaurants by rating: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

// SearchByName matches the name column case-insensitively by substring.
func (db *DB) SearchByName(ctx context.Context, name string) ([]model.Restaurant, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants
		 WHERE instr(lower(name), lower(?)) > 0
		 ORDER BY name`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching restaurants by name: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

// SetHygieneRating writes only the hygiene_rating column (nil clears it).
// This is the rating aggregator's single side effect: no other field is
// touched, updated_at included. A missing id updates zero rows and returns
// nil — recomputing the rating of a restaurant that never existed is a no-op
// by design.
func (db *DB) SetHygieneRating(ctx context.Context, id string, rating *float64) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE restaurants SET hygiene_rating = ? WHERE id = ?`,
		rating, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting hygiene rating for %s: %w", id, err)
	}
	return nil
}

// scanRestaurant reads one row's columns into a Restaurant, decoding the
// tags JSON. It takes the Scan func so it works for both Row and Rows.
func scanRestaurant(scan func(dest ...any) error) (*model.Restaurant, error) {
	var (
		r    model.Restaurant
		tags string
	)

	err := scan(
		&r.ID,
		&r.Name,
		&r.Address,
		&r.Postcode,
		&r.HygieneRating,
		&r.Cuisine,
		&tags,
		&r.CreatedBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags for restaurant %s: %w", r.ID, err)
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}

	return &r, nil
}

func collectRestaurants(rows *sql.Rows) ([]model.Restaurant, error) {
	restaurants := make([]model.Restaurant, 0)
	for rows.Next() {
		r, err := scanRestaurant(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning restaurant row: %w", err)
		}
		restaurants = append(restaurants, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating restaurants: %w", err)
	}
	return restaurants, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding tags: %w", err)
	}
	return string(b), nil
}

// rowsAffectedOrNotFound translates a zero-row UPDATE/DELETE into NotFound.
// Cheaper than a SELECT-then-write pair.
func rowsAffectedOrNotFound(result sql.Result, resource, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
