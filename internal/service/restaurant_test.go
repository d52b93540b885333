package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/belfast-eats/internal/apperror"
	"github.com/sakif/belfast-eats/internal/model"
)

func newRestaurantService(t *testing.T) (*RestaurantService, *mockRestaurantRepo) {
	t.Helper()
	repo := newMockRestaurantRepo()
	return NewRestaurantService(repo, testLogger()), repo
}

// seedRestaurant creates a restaurant owned by ownerID and returns it.
func seedRestaurant(t *testing.T, svc *RestaurantService, ownerID string) *model.Restaurant {
	t.Helper()
	restaurant, err := svc.Create(context.Background(), asUser(t, ownerID), CreateRestaurantInput{
		Name:          "Mourne Seafood Bar",
		Address:       "34-36 Bank Street",
		Postcode:      "BT1 1HL",
		HygieneRating: 5,
		Cuisine:       "Seafood",
		Tags:          []string{"fresh", "local"},
	})
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}
	return restaurant
}

// =========================================================================
// CREATE / GET / LIST
// =========================================================================

func TestRestaurantCreate_Success(t *testing.T) {
	svc, _ := newRestaurantService(t)

	restaurant := seedRestaurant(t, svc, "owner-1")

	if restaurant.ID == "" {
		t.Error("expected restaurant to have an ID")
	}
	if restaurant.CreatedBy != "owner-1" {
		t.Errorf("CreatedBy = %q, want %q", restaurant.CreatedBy, "owner-1")
	}
	if restaurant.HygieneRating == nil || *restaurant.HygieneRating != 5 {
		t.Errorf("HygieneRating = %v, want 5", restaurant.HygieneRating)
	}
}

func TestRestaurantGetByID_NotFound(t *testing.T) {
	svc, _ := newRestaurantService(t)

	_, err := svc.GetByID(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRestaurantList_Empty(t *testing.T) {
	svc, _ := newRestaurantService(t)

	restaurants, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(restaurants) != 0 {
		t.Errorf("got %d restaurants, want 0", len(restaurants))
	}
}

// =========================================================================
// UPDATE
// =========================================================================

func TestRestaurantUpdate_PartialFieldsOnly(t *testing.T) {
	svc, _ := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	newName := "Mourne Seafood"
	updated, err := svc.Update(context.Background(), asUser(t, "owner-1"), restaurant.ID, UpdateRestaurantInput{
		Name: &newName,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Name != "Mourne Seafood" {
		t.Errorf("Name = %q, want %q", updated.Name, "Mourne Seafood")
	}
	// Untouched fields keep their stored values.
	if updated.Cuisine != "Seafood" {
		t.Errorf("Cuisine = %q, want unchanged %q", updated.Cuisine, "Seafood")
	}
	if updated.Postcode != "BT1 1HL" {
		t.Errorf("Postcode = %q, want unchanged %q", updated.Postcode, "BT1 1HL")
	}
}

func TestRestaurantUpdate_AdminMayUpdateAnyListing(t *testing.T) {
	svc, _ := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	newCuisine := "Modern Irish"
	updated, err := svc.Update(context.Background(), asAdmin(t, "admin-9"), restaurant.ID, UpdateRestaurantInput{
		Cuisine: &newCuisine,
	})
	if err != nil {
		t.Fatalf("Update() as admin error = %v", err)
	}
	if updated.Cuisine != "Modern Irish" {
		t.Errorf("Cuisine = %q, want %q", updated.Cuisine, "Modern Irish")
	}
}

func TestRestaurantUpdate_StrangerForbidden(t *testing.T) {
	svc, _ := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	newName := "Hijacked"
	_, err := svc.Update(context.Background(), asUser(t, "someone-else"), restaurant.ID, UpdateRestaurantInput{
		Name: &newName,
	})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestRestaurantUpdate_NoFields(t *testing.T) {
	svc, _ := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	_, err := svc.Update(context.Background(), asUser(t, "owner-1"), restaurant.ID, UpdateRestaurantInput{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestRestaurantUpdate_NotFoundBeforePermission(t *testing.T) {
	svc, _ := newRestaurantService(t)

	// Existence is checked first: a stranger probing a missing id sees 404,
	// not 403.
	_, err := svc.Update(context.Background(), asUser(t, "someone-else"), "missing", UpdateRestaurantInput{})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRestaurantUpdate_ManualRatingOverwrites(t *testing.T) {
	svc, repo := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	// Simulate the review aggregator having written a fractional average.
	avg := 3.7
	repo.restaurants[restaurant.ID].HygieneRating = &avg

	manual := 5
	updated, err := svc.Update(context.Background(), asUser(t, "owner-1"), restaurant.ID, UpdateRestaurantInput{
		HygieneRating: &manual,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.HygieneRating == nil || *updated.HygieneRating != 5 {
		t.Errorf("HygieneRating = %v, want manual 5", updated.HygieneRating)
	}
}

// =========================================================================
// DELETE
// =========================================================================

func TestRestaurantDelete_Owner(t *testing.T) {
	svc, _ := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	if err := svc.Delete(context.Background(), asUser(t, "owner-1"), restaurant.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := svc.GetByID(context.Background(), restaurant.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("restaurant still present after delete: %v", err)
	}
}

func TestRestaurantDelete_Admin(t *testing.T) {
	svc, _ := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	if err := svc.Delete(context.Background(), asAdmin(t, "admin-9"), restaurant.ID); err != nil {
		t.Fatalf("Delete() as admin error = %v", err)
	}
}

func TestRestaurantDelete_StrangerForbidden(t *testing.T) {
	svc, _ := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	err := svc.Delete(context.Background(), asUser(t, "someone-else"), restaurant.ID)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

// =========================================================================
// SEARCH
// =========================================================================

func TestSearchByCuisine_RequiresQuery(t *testing.T) {
	svc, _ := newRestaurantService(t)

	_, err := svc.SearchByCuisine(context.Background(), "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestSearchByCuisine_ReturnsSummaries(t *testing.T) {
	svc, _ := newRestaurantService(t)
	restaurant := seedRestaurant(t, svc, "owner-1")

	summaries, err := svc.SearchByCuisine(context.Background(), "seafood")
	if err != nil {
		t.Fatalf("SearchByCuisine() error = %v", err)
	}

	if len(summaries) != 1 {
		t.Fatalf("got %d results, want 1", len(summaries))
	}
	if summaries[0].ID != restaurant.ID {
		t.Errorf("ID = %q, want %q", summaries[0].ID, restaurant.ID)
	}
	if summaries[0].Name != restaurant.Name {
		t.Errorf("Name = %q, want %q", summaries[0].Name, restaurant.Name)
	}
}

func TestListByMinRating_ExcludesUnrated(t *testing.T) {
	svc, repo := newRestaurantService(t)
	rated := seedRestaurant(t, svc, "owner-1")
	unrated := seedRestaurant(t, svc, "owner-1")
	repo.restaurants[unrated.ID].HygieneRating = nil

	restaurants, err := svc.ListByMinRating(context.Background(), 4)
	if err != nil {
		t.Fatalf("ListByMinRating() error = %v", err)
	}

	if len(restaurants) != 1 {
		t.Fatalf("got %d restaurants, want 1", len(restaurants))
	}
	if restaurants[0].ID != rated.ID {
		t.Errorf("ID = %q, want %q", restaurants[0].ID, rated.ID)
	}
}

func TestSearchByName_EmptyQueryMatchesAll(t *testing.T) {
	svc, _ := newRestaurantService(t)
	seedRestaurant(t, svc, "owner-1")
	seedRestaurant(t, svc, "owner-2")

	restaurants, err := svc.SearchByName(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchByName() error = %v", err)
	}
	if len(restaurants) != 2 {
		t.Errorf("got %d restaurants, want 2", len(restaurants))
	}
}
