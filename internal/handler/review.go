package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/belfast-eats/internal/auth"
	"github.com/sakif/belfast-eats/internal/service"
)

// ReviewHandler owns the review endpoints.
type ReviewHandler struct {
	reviewSvc *service.ReviewService
	logger    *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviewSvc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewSvc: reviewSvc,
		logger:    logger,
	}
}

// reviewRequest covers create and update bodies. Pointers distinguish
// "absent" from zero values: create needs a rating present, update leaves
// absent fields untouched.
type reviewRequest struct {
	Rating *int    `json:"rating"`
	Title  *string `json:"title"`
	Body   *string `json:"body"`
}

// HandleCreate posts a review against a restaurant id and triggers the
// rating recompute.
//
// HTTP: POST /api/v1.0/reviews/{restaurantID} (requires auth)
// Responses: 201 review | 400 rating outside 1–5 or absent | 404 when the
// caller's user record no longer exists. The restaurant id is taken as-is —
// reviewing a nonexistent restaurant succeeds and aggregates into nothing.
func (h *ReviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid review JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	input := service.CreateReviewInput{Rating: req.Rating}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Body != nil {
		input.Body = *req.Body
	}

	review, err := h.reviewSvc.Create(r.Context(), caller, r.PathValue("restaurantID"), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// HandleListForRestaurant returns all reviews for a restaurant id.
//
// HTTP: GET /api/v1.0/reviews/restaurant/{restaurantID}
// Always 200 — an unknown id is just an empty list.
func (h *ReviewHandler) HandleListForRestaurant(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewSvc.ListByRestaurant(r.Context(), r.PathValue("restaurantID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

// HandleGet returns a single review.
//
// HTTP: GET /api/v1.0/reviews/{id}
// Responses: 200 | 404.
func (h *ReviewHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviewSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

// HandleUpdate merges changes into a review. Author or admin.
//
// HTTP: PUT /api/v1.0/reviews/{id} (requires auth)
// Responses: 200 {message} | 403 | 404. The rating range is not re-checked
// and the restaurant's stored rating is not recomputed here.
func (h *ReviewHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid review JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	_, err := h.reviewSvc.Update(r.Context(), caller, r.PathValue("id"), service.UpdateReviewInput{
		Rating: req.Rating,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Review updated successfully"})
}

// HandleDelete removes a review. Author only — an admin cannot delete
// someone else's review.
//
// HTTP: DELETE /api/v1.0/reviews/{id} (requires auth)
// Responses: 200 {msg} | 403 | 404.
func (h *ReviewHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	if err := h.reviewSvc.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "Review deleted"})
}
