package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/belfast-eats/internal/auth"
	"github.com/sakif/belfast-eats/internal/service"
)

// RestaurantHandler owns the restaurant CRUD and search endpoints.
type RestaurantHandler struct {
	restaurantSvc *service.RestaurantService
	logger        *slog.Logger
}

// NewRestaurantHandler creates a RestaurantHandler.
func NewRestaurantHandler(restaurantSvc *service.RestaurantService, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantSvc: restaurantSvc,
		logger:        logger,
	}
}

// restaurantRequest covers both create and update bodies. Every field is a
// pointer because the contract is about PRESENCE: create requires all six
// keys in the JSON (empty values are allowed), and update treats a missing
// key as "leave that field alone".
type restaurantRequest struct {
	Name          *string   `json:"name"`
	Address       *string   `json:"address"`
	Postcode      *string   `json:"postcode"`
	HygieneRating *int      `json:"hygiene_rating"`
	Cuisine       *string   `json:"cuisine"`
	Tags          *[]string `json:"tags"`
}

func (req restaurantRequest) complete() bool {
	return req.Name != nil && req.Address != nil && req.Postcode != nil &&
		req.HygieneRating != nil && req.Cuisine != nil && req.Tags != nil
}

// HandleList returns every restaurant; the frontend paginates client-side.
//
// HTTP: GET /api/v1.0/restaurants/
func (h *RestaurantHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurantSvc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, restaurants)
}

// HandleGet returns a single restaurant.
//
// HTTP: GET /api/v1.0/restaurants/{id}
// Responses: 200 | 404.
func (h *RestaurantHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.restaurantSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, restaurant)
}

// HandleCreate stores a new restaurant owned by the caller.
//
// HTTP: POST /api/v1.0/restaurants/ (requires auth)
// Responses: 201 | 400 when any of the six fields is absent.
func (h *RestaurantHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req restaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid restaurant JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	if !req.complete() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Missing fields",
		})
		return
	}

	restaurant, err := h.restaurantSvc.Create(r.Context(), caller, service.CreateRestaurantInput{
		Name:          *req.Name,
		Address:       *req.Address,
		Postcode:      *req.Postcode,
		HygieneRating: *req.HygieneRating,
		Cuisine:       *req.Cuisine,
		Tags:          *req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, restaurant)
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /api/v1.0/restaurants/{id} (requires auth, creator or admin)
// Responses: 200 updated document | 400 no recognised fields | 403 | 404.
func (h *RestaurantHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req restaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid restaurant JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	restaurant, err := h.restaurantSvc.Update(r.Context(), caller, r.PathValue("id"), service.UpdateRestaurantInput{
		Name:          req.Name,
		Address:       req.Address,
		Postcode:      req.Postcode,
		HygieneRating: req.HygieneRating,
		Cuisine:       req.Cuisine,
		Tags:          req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, restaurant)
}

// HandleDelete removes a restaurant.
//
// HTTP: DELETE /api/v1.0/restaurants/{id} (requires auth, creator or admin)
// Responses: 204 | 403 | 404.
func (h *RestaurantHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	if err := h.restaurantSvc.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSearchCuisine finds restaurants by cuisine substring.
//
// HTTP: GET /api/v1.0/restaurants/search/cuisine?cuisine=thai
// Responses: 200 summary list | 400 missing query parameter.
func (h *RestaurantHandler) HandleSearchCuisine(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.restaurantSvc.SearchByCuisine(r.Context(), r.URL.Query().Get("cuisine"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// HandleMinRating lists restaurants rated at least {min}.
//
// HTTP: GET /api/v1.0/restaurants/rating/{min}
// The route pattern restricts {min} to digits, so Atoi can't fail here;
// non-numeric paths 404 at the router.
func (h *RestaurantHandler) HandleMinRating(w http.ResponseWriter, r *http.Request) {
	min, err := strconv.Atoi(r.PathValue("min"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "minimum rating must be an integer",
		})
		return
	}

	restaurants, err := h.restaurantSvc.ListByMinRating(r.Context(), min)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, restaurants)
}

// HandleSearchName finds restaurants by name substring. An empty or missing
// name matches everything.
//
// HTTP: GET /api/v1.0/restaurants/search?name=bistro
func (h *RestaurantHandler) HandleSearchName(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurantSvc.SearchByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, restaurants)
}
