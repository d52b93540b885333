package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/auth"
	"github.com/sakif/belfast-eats/internal/model"
	"github.com/sakif/belfast-eats/internal/repository"
)

// Rating bounds enforced at review creation.
const (
	MinRating = 1
	MaxRating = 5
)

// ReviewService handles reviews and the derived restaurant rating.
//
// THE RATING CONTRACT:
// A restaurant's hygiene_rating must track its current review set. The
// recompute runs synchronously after a review INSERT and after a review
// DELETE — and only there. A review UPDATE changes the stored review but
// leaves the restaurant's rating at its previous value until the next
// insert or delete.
//
// CONSISTENCY:
// There is no locking around the recompute. Two concurrent review writes for
// the same restaurant each read the review set and each write an average;
// whichever write lands last wins, and it may or may not have seen the other
// request's review. Last-write-wins is the accepted behaviour — every
// individual recompute is correct for the set it read, and the next review
// write repairs any lost update.
type ReviewService struct {
	reviews     repository.ReviewRepository
	restaurants repository.RestaurantRepository
	users       repository.UserRepository
	logger      *slog.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(
	reviews repository.ReviewRepository,
	restaurants repository.RestaurantRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:     reviews,
		restaurants: restaurants,
		users:       users,
		logger:      logger,
	}
}

// CreateReviewInput is the review creation payload. Rating is a pointer so
// "rating absent" and "rating 0" both fail the range check the same way.
type CreateReviewInput struct {
	Rating *int
	Title  string
	Body   string
}

// Create stores a new review and recomputes the restaurant's rating.
//
// The caller's user record must still exist — this is the one endpoint that
// consults the live user record rather than trusting the token alone. The
// restaurant is NOT checked: a review may target an id that never existed,
// in which case the recompute updates nothing.
func (s *ReviewService) Create(ctx context.Context, caller auth.Identity, restaurantID string, input CreateReviewInput) (*model.Review, error) {
	user, err := s.users.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	if input.Rating == nil || *input.Rating < MinRating || *input.Rating > MaxRating {
		return nil, apperror.ValidationFailed("rating", "Rating must be 1-5")
	}

	review := &model.Review{
		RestaurantID: restaurantID,
		UserID:       user.ID,
		Rating:       *input.Rating,
		Title:        input.Title,
		Body:         input.Body,
	}

	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("service/review: creating review: %w", err)
	}

	if err := s.recomputeRating(ctx, restaurantID); err != nil {
		// The review is already committed; the rating write failing is a
		// server error, not a rollback.
		return nil, err
	}

	s.logger.Info("review created",
		slog.String("id", review.ID),
		slog.String("restaurantID", restaurantID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// GetByID retrieves a single review.
func (s *ReviewService) GetByID(ctx context.Context, id string) (*model.Review, error) {
	return s.reviews.GetReviewByID(ctx, id)
}

// ListByRestaurant returns all reviews for a restaurant id. An id with no
// reviews — or no restaurant — yields an empty list.
func (s *ReviewService) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Review, error) {
	reviews, err := s.reviews.ListReviewsByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("service/review: listing reviews: %w", err)
	}
	return reviews, nil
}

// UpdateReviewInput is a partial update; nil fields keep their stored value.
type UpdateReviewInput struct {
	Rating *int
	Title  *string
	Body   *string
}

// Update merges the supplied fields into the review. Author or admin only.
//
// Two deliberate asymmetries with Create live here:
//   - the rating range is NOT re-validated — an update can store any value
//   - the restaurant's hygiene_rating is NOT recomputed — the stored average
//     keeps reflecting the pre-update ratings until the next insert/delete
func (s *ReviewService) Update(ctx context.Context, caller auth.Identity, id string, input UpdateReviewInput) (*model.Review, error) {
	review, err := s.reviews.GetReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canModify(caller, review.UserID) {
		return nil, apperror.Forbidden("Not authorized")
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Body != nil {
		review.Body = *input.Body
	}

	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("service/review: updating review %s: %w", id, err)
	}

	s.logger.Info("review updated", slog.String("id", id))

	return review, nil
}

// Delete removes a review and recomputes the restaurant's rating from the
// reviews that remain.
//
// OWNER-ONLY: unlike every other mutation in the API, the admin role does
// not bypass this check — only the review's author may delete it.
func (s *ReviewService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	review, err := s.reviews.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}

	if review.UserID != caller.UserID {
		return apperror.Forbidden("Unauthorized")
	}

	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}

	// The review row is gone; its restaurant id was captured before the
	// delete so the recompute covers the shrunken set.
	if err := s.recomputeRating(ctx, review.RestaurantID); err != nil {
		return err
	}

	s.logger.Info("review deleted",
		slog.String("id", id),
		slog.String("restaurantID", review.RestaurantID),
	)

	return nil
}

// recomputeRating rebuilds a restaurant's hygiene_rating from its current
// review set: NULL when no reviews remain, otherwise the arithmetic mean of
// the ratings rounded to one decimal place.
//
// Rounding is half-away-from-zero (math.Round): a true mean of 4.25 stores
// as 4.3. Only the hygiene_rating field is written; a restaurant id that
// matches nothing makes the write a no-op, not an error.
func (s *ReviewService) recomputeRating(ctx context.Context, restaurantID string) error {
	reviews, err := s.reviews.ListReviewsByRestaurant(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("service/review: loading reviews for recompute: %w", err)
	}

	if len(reviews) == 0 {
		if err := s.restaurants.SetHygieneRating(ctx, restaurantID, nil); err != nil {
			return fmt.Errorf("service/review: clearing rating: %w", err)
		}
		return nil
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := math.Round(float64(sum)/float64(len(reviews))*10) / 10

	if err := s.restaurants.SetHygieneRating(ctx, restaurantID, &avg); err != nil {
		return fmt.Errorf("service/review: writing rating: %w", err)
	}

	return nil
}
