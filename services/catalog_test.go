package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/dmalakhov/spravka/core"
	"github.com/dmalakhov/spravka/pkg/cache"
)

// Requirement: zero-valued filters stay out of the query string entirely.
func TestListCompaniesOptions_Query(t *testing.T) {
	tests := []struct {
		name string
		opts ListCompaniesOptions
		want url.Values
	}{
		{
			name: "empty options produce an empty query",
			opts: ListCompaniesOptions{},
			want: url.Values{},
		},
		{
			name: "set fields are encoded",
			opts: ListCompaniesOptions{Page: 2, PerPage: 20, Category: "Food", City: "Riga", Search: "pizza", MinRating: 3.5, OwnerID: 9},
			want: url.Values{
				"page":     {"2"},
				"per_page": {"20"},
				"category": {"Food"},
				"city":     {"Riga"},
				"search":   {"pizza"},
				"rating":   {"3.5"},
				"owner_id": {"9"},
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := test.opts.query(); !reflect.DeepEqual(got, test.want) {
				t.Errorf("query() = %v, want %v", got, test.want)
			}
		})
	}
}

// Requirement: listing hits GET /catalog with the filters and decodes the
// paged payload.
func TestCatalogService_List(t *testing.T) {
	// Arrange
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog" {
			t.Errorf("path = %s, want /catalog", r.URL.Path)
		}
		if r.URL.Query().Get("category") != "IT" {
			t.Errorf("category = %q, want IT", r.URL.Query().Get("category"))
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"companies":    []core.Company{{ID: 1, Name: "Acme", Category: "IT", City: "Riga", Rating: 4.5}},
			"total":        1,
			"pages":        1,
			"current_page": 1,
			"per_page":     10,
		})
	})
	service := NewCatalog(client, nil)

	// Act
	page, err := service.List(context.Background(), ListCompaniesOptions{Category: "IT"})

	// Assert
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 1 || len(page.Companies) != 1 || page.Companies[0].Name != "Acme" {
		t.Errorf("List() = %+v, want one company named Acme", page)
	}
}

// Requirement: creating a company validates the required fields locally.
func TestCatalogService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   CompanyInput
		wantErr error
	}{
		{name: "missing name", input: CompanyInput{Category: "IT", City: "Riga"}, wantErr: core.ErrNameRequired},
		{name: "missing category", input: CompanyInput{Name: "Acme", City: "Riga"}, wantErr: core.ErrCategoryRequired},
		{name: "missing city", input: CompanyInput{Name: "Acme", Category: "IT"}, wantErr: core.ErrCityRequired},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request should be sent for invalid input")
			})
			service := NewCatalog(client, nil)

			if _, err := service.Create(context.Background(), test.input); !errors.Is(err, test.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, test.wantErr)
			}
			if _, err := service.Update(context.Background(), 1, test.input); !errors.Is(err, test.wantErr) {
				t.Errorf("Update() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

// Requirement: create unwraps the {message, company} envelope.
func TestCatalogService_Create(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/catalog" {
			t.Errorf("request = %s %s, want POST /catalog", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"message": "Company created successfully",
			"company": core.Company{ID: 5, Name: "Acme", Category: "IT", City: "Riga", Status: core.StatusPending},
		})
	})
	service := NewCatalog(client, nil)

	company, err := service.Create(context.Background(), CompanyInput{Name: "Acme", Category: "IT", City: "Riga"})

	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if company.ID != 5 || company.Status != core.StatusPending {
		t.Errorf("Create() = %+v, want id 5 pending", company)
	}
}

// Requirement: lookup lists are fetched once and then served from cache
// until the TTL expires.
func TestCatalogService_Categories_Cached(t *testing.T) {
	// Arrange
	calls := 0
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/catalog/categories" {
			t.Errorf("path = %s, want /catalog/categories", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, []string{"Food", "IT"})
	})
	service := NewCatalog(client, cache.NewMemory[[]string](cache.Config{}))

	// Act: two consecutive fetches.
	first, err := service.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	second, err := service.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}

	// Assert
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (second fetch served from cache)", calls)
	}
	if !reflect.DeepEqual(first, second) || len(first) != 2 {
		t.Errorf("Categories() = %v then %v, want identical two-item lists", first, second)
	}
}

// Requirement: without a cache the service still works, hitting the backend
// every time.
func TestCatalogService_Cities_NoCache(t *testing.T) {
	calls := 0
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(t, w, http.StatusOK, []string{"Riga"})
	})
	service := NewCatalog(client, nil)

	if _, err := service.Cities(context.Background()); err != nil {
		t.Fatalf("Cities() error = %v", err)
	}
	if _, err := service.Cities(context.Background()); err != nil {
		t.Fatalf("Cities() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("server calls = %d, want 2", calls)
	}
}

// Requirement: a missing company surfaces as a 404 APIError the caller can
// detect with IsNotFound.
func TestCatalogService_Get_NotFound(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "Company not found"})
	})
	service := NewCatalog(client, nil)

	_, err := service.Get(context.Background(), 999)

	if !core.IsNotFound(err) {
		t.Fatalf("Get() error = %v, want a 404 APIError", err)
	}
}
