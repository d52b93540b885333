// Package repository defines the persistence interfaces the service layer
// programs against. The sqlite subpackage is the concrete implementation;
// service tests use in-memory mocks. Services never see a *sql.DB.
package repository

import (
	"context"

	"github.com/sakif/belfast-eats/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail returns apperror.ErrNotFound when no account has the
	// email. Registration uses that as its uniqueness pre-check.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error
	GetRestaurantByID(ctx context.Context, id string) (*model.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
	UpdateRestaurant(ctx context.Context, restaurant *model.Restaurant) error
	DeleteRestaurant(ctx context.Context, id string) error

	// SearchByCuisine does a case-insensitive substring match and returns the
	// trimmed summary projection.
	SearchByCuisine(ctx context.Context, cuisine string) ([]model.RestaurantSummary, error)
	// ListByMinRating returns restaurants whose hygiene_rating is at least
	// min. Unrated restaurants (NULL) never match.
	ListByMinRating(ctx context.Context, min int) ([]model.Restaurant, error)
	// SearchByName does a case-insensitive substring match on the name.
	SearchByName(ctx context.Context, name string) ([]model.Restaurant, error)

	// SetHygieneRating writes only the hygiene_rating column; nil clears it.
	// A missing id matches zero rows and is NOT an error — the rating
	// aggregator relies on that when a review points at a restaurant that
	// never existed or was deleted.
	SetHygieneRating(ctx context.Context, id string, rating *float64) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *model.Review) error
	GetReviewByID(ctx context.Context, id string) (*model.Review, error)
	ListReviewsByRestaurant(ctx context.Context, restaurantID string) ([]model.Review, error)
	UpdateReview(ctx context.Context, review *model.Review) error
	DeleteReview(ctx context.Context, id string) error
}
