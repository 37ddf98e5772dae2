package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmalakhov/spravka/core"
	"github.com/dmalakhov/spravka/pkg/cache"
)

// CatalogService wraps the /catalog endpoints. Category and city lookup
// lists change rarely and are served through a short TTL cache.
type CatalogService struct {
	client  *core.Client
	lookups *cache.Memory[[]string]
}

func NewCatalog(client *core.Client, lookups *cache.Memory[[]string]) *CatalogService {
	return &CatalogService{client: client, lookups: lookups}
}

// ListCompaniesOptions filters and paginates the catalog listing. Zero
// values are omitted from the query.
type ListCompaniesOptions struct {
	Page      int
	PerPage   int
	Category  string
	City      string
	Search    string
	MinRating float64
	OwnerID   int64
}

func (o ListCompaniesOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.City != "" {
		q.Set("city", o.City)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.MinRating > 0 {
		q.Set("rating", strconv.FormatFloat(o.MinRating, 'f', -1, 64))
	}
	if o.OwnerID > 0 {
		q.Set("owner_id", strconv.FormatInt(o.OwnerID, 10))
	}
	return q
}

// List returns one page of approved companies matching the filters.
func (s *CatalogService) List(ctx context.Context, opts ListCompaniesOptions) (*core.CompanyPage, error) {
	var page core.CompanyPage
	if err := s.client.Do(ctx, http.MethodGet, "/catalog", opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns one company with its details.
func (s *CatalogService) Get(ctx context.Context, id int64) (*core.Company, error) {
	var c core.Company
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/catalog/%d", id), nil, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// CompanyInput carries the writable company fields.
type CompanyInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	City        string `json:"city"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

func (in CompanyInput) validate() error {
	if in.Name == "" {
		return core.ErrNameRequired
	}
	if in.Category == "" {
		return core.ErrCategoryRequired
	}
	if in.City == "" {
		return core.ErrCityRequired
	}
	return nil
}

type companyResponse struct {
	Message string        `json:"message"`
	Company *core.Company `json:"company"`
}

// Create submits a new company. It enters the catalog with pending status
// until a moderator approves it.
func (s *CatalogService) Create(ctx context.Context, in CompanyInput) (*core.Company, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var resp companyResponse
	if err := s.client.Do(ctx, http.MethodPost, "/catalog", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Company, nil
}

// Update edits a company. The backend rejects callers who are neither the
// owner nor an admin.
func (s *CatalogService) Update(ctx context.Context, id int64, in CompanyInput) (*core.Company, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var resp companyResponse
	if err := s.client.Do(ctx, http.MethodPut, fmt.Sprintf("/catalog/%d", id), nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Company, nil
}

// Delete removes a company and its reviews.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/catalog/%d", id), nil, nil, nil)
}

// Categories returns the distinct company categories, cached.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.lookup(ctx, "categories", "/catalog/categories")
}

// Cities returns the distinct company cities, cached.
func (s *CatalogService) Cities(ctx context.Context) ([]string, error) {
	return s.lookup(ctx, "cities", "/catalog/cities")
}

func (s *CatalogService) lookup(ctx context.Context, key, path string) ([]string, error) {
	if s.lookups != nil {
		if values, err := s.lookups.Get(key); err == nil {
			return values, nil
		}
	}

	var values []string
	if err := s.client.Do(ctx, http.MethodGet, path, nil, nil, &values); err != nil {
		return nil, err
	}

	if s.lookups != nil {
		// A failed cache write is not worth failing the request over.
		_ = s.lookups.Set(key, values)
	}
	return values, nil
}
