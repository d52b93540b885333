package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/auth"
	"github.com/sakif/belfast-eats/internal/model"
	"github.com/sakif/belfast-eats/internal/repository"
)

// RestaurantService handles the restaurant catalog: CRUD plus the three
// search endpoints. Mutations are gated to the creator or an admin.
type RestaurantService struct {
	restaurants repository.RestaurantRepository
	logger      *slog.Logger
}

// NewRestaurantService creates a RestaurantService.
func NewRestaurantService(restaurants repository.RestaurantRepository, logger *slog.Logger) *RestaurantService {
	return &RestaurantService{
		restaurants: restaurants,
		logger:      logger,
	}
}

// CreateRestaurantInput carries the creation payload. The handler has
// already verified all six fields were present in the JSON body; values may
// still be empty strings — presence is what the contract requires.
//
// HygieneRating is an int here: at creation the rating is a manually-set
// whole number. It becomes a one-decimal float only once the review
// aggregator takes over the field.
type CreateRestaurantInput struct {
	Name          string
	Address       string
	Postcode      string
	HygieneRating int
	Cuisine       string
	Tags          []string
}

// Create stores a new restaurant owned by the calling user.
func (s *RestaurantService) Create(ctx context.Context, caller auth.Identity, input CreateRestaurantInput) (*model.Restaurant, error) {
	rating := float64(input.HygieneRating)

	restaurant := &model.Restaurant{
		Name:          input.Name,
		Address:       input.Address,
		Postcode:      input.Postcode,
		HygieneRating: &rating,
		Cuisine:       input.Cuisine,
		Tags:          input.Tags,
		CreatedBy:     caller.UserID,
	}

	if err := s.restaurants.CreateRestaurant(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("service/restaurant: creating restaurant: %w", err)
	}

	s.logger.Info("restaurant created",
		slog.String("id", restaurant.ID),
		slog.String("createdBy", caller.UserID),
	)

	return restaurant, nil
}

// GetByID retrieves a restaurant. Returns apperror.ErrNotFound when absent.
func (s *RestaurantService) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	return s.restaurants.GetRestaurantByID(ctx, id)
}

// List returns every restaurant; pagination/sorting is the client's job.
func (s *RestaurantService) List(ctx context.Context) ([]model.Restaurant, error) {
	restaurants, err := s.restaurants.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/restaurant: listing restaurants: %w", err)
	}
	return restaurants, nil
}

// UpdateRestaurantInput carries a partial update: nil means "leave alone".
type UpdateRestaurantInput struct {
	Name          *string
	Address       *string
	Postcode      *string
	HygieneRating *int
	Cuisine       *string
	Tags          *[]string
}

func (in UpdateRestaurantInput) empty() bool {
	return in.Name == nil && in.Address == nil && in.Postcode == nil &&
		in.HygieneRating == nil && in.Cuisine == nil && in.Tags == nil
}

// Update applies a partial update to a restaurant.
//
// Order of checks matters for the status codes: existence first (404), then
// permission (403), then payload (400). Only the creator or an admin may
// update.
//
// A manually-set HygieneRating is written as-is. If the restaurant has
// reviews, the value lasts only until the next review insert/delete
// recomputes the field — nothing protects it.
func (s *RestaurantService) Update(ctx context.Context, caller auth.Identity, id string, input UpdateRestaurantInput) (*model.Restaurant, error) {
	restaurant, err := s.restaurants.GetRestaurantByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canModify(caller, restaurant.CreatedBy) {
		return nil, apperror.Forbidden("Not permitted")
	}

	if input.empty() {
		return nil, apperror.ValidationFailed("", "No updatable fields provided")
	}

	if input.Name != nil {
		restaurant.Name = *input.Name
	}
	if input.Address != nil {
		restaurant.Address = *input.Address
	}
	if input.Postcode != nil {
		restaurant.Postcode = *input.Postcode
	}
	if input.HygieneRating != nil {
		rating := float64(*input.HygieneRating)
		restaurant.HygieneRating = &rating
	}
	if input.Cuisine != nil {
		restaurant.Cuisine = *input.Cuisine
	}
	if input.Tags != nil {
		restaurant.Tags = *input.Tags
	}

	if err := s.restaurants.UpdateRestaurant(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("service/restaurant: updating restaurant %s: %w", id, err)
	}

	s.logger.Info("restaurant updated", slog.String("id", id))

	return restaurant, nil
}

// Delete removes a restaurant. Creator or admin only. Reviews pointing at it
// are left behind (soft reference).
func (s *RestaurantService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	restaurant, err := s.restaurants.GetRestaurantByID(ctx, id)
	if err != nil {
		return err
	}

	if !canModify(caller, restaurant.CreatedBy) {
		return apperror.Forbidden("Not permitted")
	}

	if err := s.restaurants.DeleteRestaurant(ctx, id); err != nil {
		return err
	}

	s.logger.Info("restaurant deleted", slog.String("id", id))
	return nil
}

// SearchByCuisine finds restaurants whose cuisine contains the query,
// case-insensitively, as trimmed summaries. The query must be non-empty.
func (s *RestaurantService) SearchByCuisine(ctx context.Context, cuisine string) ([]model.RestaurantSummary, error) {
	if cuisine == "" {
		return nil, apperror.ValidationFailed("cuisine", "Cuisine query parameter is required")
	}

	summaries, err := s.restaurants.SearchByCuisine(ctx, cuisine)
	if err != nil {
		return nil, fmt.Errorf("service/restaurant: searching by cuisine: %w", err)
	}
	return summaries, nil
}

// ListByMinRating returns restaurants with hygiene_rating >= min. Unrated
// restaurants never appear.
func (s *RestaurantService) ListByMinRating(ctx context.Context, min int) ([]model.Restaurant, error) {
	restaurants, err := s.restaurants.ListByMinRating(ctx, min)
	if err != nil {
		return nil, fmt.Errorf("service/restaurant: listing by rating: %w", err)
	}
	return restaurants, nil
}

// SearchByName finds restaurants whose name contains the query,
// case-insensitively. An empty query matches everything.
func (s *RestaurantService) SearchByName(ctx context.Context, name string) ([]model.Restaurant, error) {
	restaurants, err := s.restaurants.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service/restaurant: searching by name: %w", err)
	}
	return restaurants, nil
}
