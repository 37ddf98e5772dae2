package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmalakhov/spravka/core"
)

// PendingType selects which moderation queue to list.
type PendingType string

const (
	PendingCompanies PendingType = "companies"
	PendingArticles  PendingType = "articles"
	PendingComments  PendingType = "comments"
	PendingReviews   PendingType = "reviews"
)

// ModerationService wraps the admin-only moderation endpoints. The backend
// re-checks the admin role on every call; UI-side gating goes through
// AuthManager.RequireAdmin.
type ModerationService struct {
	client *core.Client
}

func NewModeration(client *core.Client) *ModerationService {
	return &ModerationService{client: client}
}

func (s *ModerationService) moderate(ctx context.Context, path string, status core.ModerationStatus) error {
	if !status.Valid() {
		return core.ErrStatusInvalid
	}
	body := map[string]core.ModerationStatus{"status": status}
	return s.client.Do(ctx, http.MethodPost, path, nil, body, nil)
}

// ModerateCompany sets a company's moderation status.
func (s *ModerationService) ModerateCompany(ctx context.Context, id int64, status core.ModerationStatus) error {
	return s.moderate(ctx, fmt.Sprintf("/moderation/companies/%d/moderate", id), status)
}

// ModerateArticle sets an article's moderation status.
func (s *ModerationService) ModerateArticle(ctx context.Context, id int64, status core.ModerationStatus) error {
	return s.moderate(ctx, fmt.Sprintf("/forum/articles/%d/moderate", id), status)
}

// ModerateComment sets a comment's moderation status.
func (s *ModerationService) ModerateComment(ctx context.Context, id int64, status core.ModerationStatus) error {
	return s.moderate(ctx, fmt.Sprintf("/forum/comments/%d/moderate", id), status)
}

// ModerateReview sets a review's moderation status.
func (s *ModerationService) ModerateReview(ctx context.Context, id int64, status core.ModerationStatus) error {
	return s.moderate(ctx, fmt.Sprintf("/catalog/reviews/%d/moderate", id), status)
}

// Companies lists companies in a moderation queue. An invalid status falls
// back to pending, matching the backend default.
func (s *ModerationService) Companies(ctx context.Context, status core.ModerationStatus, page, perPage int) (*core.CompanyPage, error) {
	q := url.Values{}
	if status.Valid() {
		q.Set("status", string(status))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}

	var out core.CompanyPage
	if err := s.client.Do(ctx, http.MethodGet, "/moderation/companies", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingQueue is the union shape of GET /moderation/{type}: exactly one of
// the slices is populated, depending on the requested type.
type PendingQueue struct {
	Companies []core.Company `json:"companies,omitempty"`
	Articles  []core.Article `json:"articles,omitempty"`
	Comments  []core.Comment `json:"comments,omitempty"`
	Reviews   []core.Review  `json:"reviews,omitempty"`
	core.Page
}

// Pending lists the moderation queue for one content kind.
func (s *ModerationService) Pending(ctx context.Context, kind PendingType) (*PendingQueue, error) {
	var out PendingQueue
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/moderation/%s", kind), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
