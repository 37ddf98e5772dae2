package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmalakhov/spravka/core"
)

// ReviewService wraps the /reviews endpoints.
type ReviewService struct {
	client *core.Client
}

func NewReviews(client *core.Client) *ReviewService {
	return &ReviewService{client: client}
}

// ReviewInput carries the writable review fields.
type ReviewInput struct {
	CompanyID int64    `json:"company_id,omitempty"`
	Rating    int      `json:"rating"`
	Text      string   `json:"text,omitempty"`
	Photos    []string `json:"photos,omitempty"`
}

func (in ReviewInput) validate(requireCompany bool) error {
	if requireCompany && in.CompanyID == 0 {
		return core.ErrCompanyRequired
	}
	if in.Rating < 1 || in.Rating > 5 {
		return core.ErrRatingInvalid
	}
	return nil
}

type reviewResponse struct {
	Message string       `json:"message"`
	Review  *core.Review `json:"review"`
}

// Create posts a review for a company. One review per user per company;
// a second attempt is rejected by the backend.
func (s *ReviewService) Create(ctx context.Context, in ReviewInput) (*core.Review, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	var resp reviewResponse
	if err := s.client.Do(ctx, http.MethodPost, "/reviews", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}

// Update edits the caller's own review.
func (s *ReviewService) Update(ctx context.Context, id int64, in ReviewInput) (*core.Review, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	var resp reviewResponse
	if err := s.client.Do(ctx, http.MethodPut, fmt.Sprintf("/reviews/%d", id), nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}

// Delete removes the caller's own review.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/reviews/%d", id), nil, nil, nil)
}

// Get returns a single review.
func (s *ReviewService) Get(ctx context.Context, id int64) (*core.Review, error) {
	var r core.Review
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/reviews/%d", id), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ForCompany returns one page of a company's approved reviews.
func (s *ReviewService) ForCompany(ctx context.Context, companyID int64, page int) (*core.ReviewPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var out core.ReviewPage
	path := fmt.Sprintf("/reviews/company/%d", companyID)
	if err := s.client.Do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine returns one page of the authenticated user's own reviews.
func (s *ReviewService) Mine(ctx context.Context, page int) (*core.ReviewPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var out core.ReviewPage
	if err := s.client.Do(ctx, http.MethodGet, "/reviews/user", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
