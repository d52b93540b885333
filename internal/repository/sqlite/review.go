package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/model"
	"github.com/sakif/belfast-eats/internal/repository"
)

var _ repository.ReviewRepository = (*DB)(nil)

const reviewColumns = `id, restaurant_id, user_id, rating, title, body, created_at, updated_at`

// CreateReview inserts a new review, generating its ID and timestamps. The
// restaurant_id is stored as given — nothing checks that it points anywhere.
func (db *DB) CreateReview(ctx context.Context, review *model.Review) error {
	review.ID = xid.New().String()

	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reviews (id, restaurant_id, user_id, rating, title, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.RestaurantID,
		review.UserID,
		review.Rating,
		review.Title,
		review.Body,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating review: %w", err)
	}

	return nil
}

// GetReviewByID retrieves a single review by its ID.
func (db *DB) GetReviewByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id,
	).Scan(
		&review.ID,
		&review.RestaurantID,
		&review.UserID,
		&review.Rating,
		&review.Title,
		&review.Body,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("review", id)
		}
		return nil, fmt.Errorf("sqlite: getting review %s: %w", id, err)
	}

	return &review, nil
}

// ListReviewsByRestaurant returns every review for the given restaurant id, oldest
// first. An unknown id just yields an empty list.
func (db *DB) ListReviewsByRestaurant(ctx context.Context, restaurantID string) ([]model.Review, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		 WHERE restaurant_id = ?
		 ORDER BY created_at`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews for restaurant %s: %w", restaurantID, err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(
			&r.ID, &r.RestaurantID, &r.UserID, &r.Rating,
			&r.Title, &r.Body, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reviews: %w", err)
	}

	return reviews, nil
}

// UpdateReview overwrites rating, title, and body, and refreshes updated_at. The
// rating value is written as given — range validation happens only at
// creation, in the service layer.
func (db *DB) UpdateReview(ctx context.Context, review *model.Review) error {
	review.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE reviews
		 SET rating = ?, title = ?, body = ?, updated_at = ?
		 WHERE id = ?`,
		review.Rating,
		review.Title,
		review.Body,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating review %s: %w", review.ID, err)
	}

	return rowsAffectedOrNotFound(result, "review", review.ID)
}

// DeleteReview removes a review by its ID.
func (db *DB) DeleteReview(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting review %s: %w", id, err)
	}

	return rowsAffectedOrNotFound(result, "review", id)
}
