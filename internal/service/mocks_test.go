package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/auth"
	"github.com/sakif/belfast-eats/internal/model"
)

// In-memory implementations of the repository interfaces, shared by the
// service tests in this package. They mirror the documented contracts the
// sqlite implementation honours: NotFound sentinels on missing rows, and
// SetHygieneRating treating an unknown id as a zero-row no-op.

// =========================================================================
// USER MOCK
// =========================================================================

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// =========================================================================
// RESTAURANT MOCK
// =========================================================================

type mockRestaurantRepo struct {
	restaurants map[string]*model.Restaurant
	nextID      int

	// ratingWrites counts SetHygieneRating calls, including ones whose id
	// matched nothing. Tests use it to pin down when the aggregator runs.
	ratingWrites int
}

func newMockRestaurantRepo() *mockRestaurantRepo {
	return &mockRestaurantRepo{restaurants: make(map[string]*model.Restaurant)}
}

func (m *mockRestaurantRepo) CreateRestaurant(_ context.Context, restaurant *model.Restaurant) error {
	m.nextID++
	restaurant.ID = fmt.Sprintf("rest-%d", m.nextID)
	stored := *restaurant
	m.restaurants[restaurant.ID] = &stored
	return nil
}

func (m *mockRestaurantRepo) GetRestaurantByID(_ context.Context, id string) (*model.Restaurant, error) {
	restaurant, ok := m.restaurants[id]
	if !ok {
		return nil, apperror.NotFound("restaurant", id)
	}
	result := *restaurant
	return &result, nil
}

func (m *mockRestaurantRepo) ListRestaurants(_ context.Context) ([]model.Restaurant, error) {
	result := make([]model.Restaurant, 0, len(m.restaurants))
	for _, r := range m.restaurants {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockRestaurantRepo) UpdateRestaurant(_ context.Context, restaurant *model.Restaurant) error {
	if _, ok := m.restaurants[restaurant.ID]; !ok {
		return apperror.NotFound("restaurant", restaurant.ID)
	}
	stored := *restaurant
	m.restaurants[restaurant.ID] = &stored
	return nil
}

func (m *mockRestaurantRepo) DeleteRestaurant(_ context.Context, id string) error {
	if _, ok := m.restaurants[id]; !ok {
		return apperror.NotFound("restaurant", id)
	}
	delete(m.restaurants, id)
	return nil
}

func (m *mockRestaurantRepo) SearchByCuisine(_ context.Context, cuisine string) ([]model.RestaurantSummary, error) {
	result := make([]model.RestaurantSummary, 0)
	for _, r := range m.restaurants {
		if strings.Contains(strings.ToLower(r.Cuisine), strings.ToLower(cuisine)) {
			result = append(result, model.RestaurantSummary{
				ID:            r.ID,
				Name:          r.Name,
				Cuisine:       r.Cuisine,
				HygieneRating: r.HygieneRating,
			})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockRestaurantRepo) ListByMinRating(_ context.Context, min int) ([]model.Restaurant, error) {
	result := make([]model.Restaurant, 0)
	for _, r := range m.restaurants {
		if r.HygieneRating != nil && *r.HygieneRating >= float64(min) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockRestaurantRepo) SearchByName(_ context.Context, name string) ([]model.Restaurant, error) {
	result := make([]model.Restaurant, 0)
	for _, r := range m.restaurants {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(name)) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockRestaurantRepo) SetHygieneRating(_ context.Context, id string, rating *float64) error {
	m.ratingWrites++
	restaurant, ok := m.restaurants[id]
	if !ok {
		// Zero rows matched. Per the interface contract this is not an error.
		return nil
	}
	if rating == nil {
		restaurant.HygieneRating = nil
		return nil
	}
	value := *rating
	restaurant.HygieneRating = &value
	return nil
}

// =========================================================================
// REVIEW MOCK
// =========================================================================

type mockReviewRepo struct {
	reviews map[string]*model.Review
	nextID  int
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[string]*model.Review)}
}

func (m *mockReviewRepo) CreateReview(_ context.Context, review *model.Review) error {
	m.nextID++
	review.ID = fmt.Sprintf("review-%d", m.nextID)
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m *mockReviewRepo) GetReviewByID(_ context.Context, id string) (*model.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, apperror.NotFound("review", id)
	}
	result := *review
	return &result, nil
}

func (m *mockReviewRepo) ListReviewsByRestaurant(_ context.Context, restaurantID string) ([]model.Review, error) {
	result := make([]model.Review, 0)
	for _, r := range m.reviews {
		if r.RestaurantID == restaurantID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockReviewRepo) UpdateReview(_ context.Context, review *model.Review) error {
	if _, ok := m.reviews[review.ID]; !ok {
		return apperror.NotFound("review", review.ID)
	}
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m *mockReviewRepo) DeleteReview(_ context.Context, id string) error {
	if _, ok := m.reviews[id]; !ok {
		return apperror.NotFound("review", id)
	}
	delete(m.reviews, id)
	return nil
}

// =========================================================================
// SHARED HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func asUser(t *testing.T, userID string) auth.Identity {
	t.Helper()
	return auth.Identity{UserID: userID, Role: model.RoleUser}
}

func asAdmin(t *testing.T, userID string) auth.Identity {
	t.Helper()
	return auth.Identity{UserID: userID, Role: model.RoleAdmin}
}
