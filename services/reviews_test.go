package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dmalakhov/spravka/core"
)

// Requirement: a review needs a company and a rating between 1 and 5; out of
// range input never reaches the network.
func TestReviewService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   ReviewInput
		wantErr error
	}{
		{name: "missing company", input: ReviewInput{Rating: 4}, wantErr: core.ErrCompanyRequired},
		{name: "rating below range", input: ReviewInput{CompanyID: 1, Rating: 0}, wantErr: core.ErrRatingInvalid},
		{name: "rating above range", input: ReviewInput{CompanyID: 1, Rating: 6}, wantErr: core.ErrRatingInvalid},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request should be sent for invalid input")
			})
			service := NewReviews(client)

			if _, err := service.Create(context.Background(), test.input); !errors.Is(err, test.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

// Requirement: updating keeps the rating rule but does not require a company;
// the review already belongs to one.
func TestReviewService_Update_Validation(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"message": "Review updated",
			"review":  core.Review{ID: 3, Rating: 5, Text: "better now"},
		})
	})
	service := NewReviews(client)

	if _, err := service.Update(context.Background(), 3, ReviewInput{Rating: 9}); !errors.Is(err, core.ErrRatingInvalid) {
		t.Errorf("Update() error = %v, want ErrRatingInvalid", err)
	}

	review, err := service.Update(context.Background(), 3, ReviewInput{Rating: 5, Text: "better now"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if review.Rating != 5 {
		t.Errorf("Update() rating = %d, want 5", review.Rating)
	}
}

// Requirement: company reviews and own reviews come from their distinct
// endpoints with page numbers in the query.
func TestReviewService_Listings(t *testing.T) {
	// Arrange
	var gotPath, gotPage string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		writeJSON(t, w, http.StatusOK, map[string]any{
			"reviews":      []core.Review{{ID: 1, Rating: 5}},
			"total":        1,
			"pages":        1,
			"current_page": 1,
			"per_page":     10,
		})
	})
	service := NewReviews(client)

	// Act + Assert
	if _, err := service.ForCompany(context.Background(), 7, 2); err != nil {
		t.Fatalf("ForCompany() error = %v", err)
	}
	if gotPath != "/reviews/company/7" || gotPage != "2" {
		t.Errorf("ForCompany hit %s?page=%s, want /reviews/company/7?page=2", gotPath, gotPage)
	}

	if _, err := service.Mine(context.Background(), 3); err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if gotPath != "/reviews/user" || gotPage != "3" {
		t.Errorf("Mine hit %s?page=%s, want /reviews/user?page=3", gotPath, gotPage)
	}
}

// Requirement: a duplicate review is the backend's call; its message comes
// through verbatim.
func TestReviewService_Create_Duplicate(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "You have already reviewed this company"})
	})
	service := NewReviews(client)

	_, err := service.Create(context.Background(), ReviewInput{CompanyID: 1, Rating: 4, Text: "again"})

	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "You have already reviewed this company" {
		t.Fatalf("Create() error = %v, want the backend's duplicate message", err)
	}
}
