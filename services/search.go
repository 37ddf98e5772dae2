package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmalakhov/spravka/core"
)

// SearchType restricts full-text search to one entity kind.
type SearchType string

const (
	SearchAll       SearchType = "all"
	SearchCompanies SearchType = "companies"
	SearchArticles  SearchType = "articles"
	SearchReviews   SearchType = "reviews"
)

// minSuggestionQuery mirrors the UI rule: no typeahead below two characters.
const minSuggestionQuery = 2

// SearchService wraps /search and /search/suggestions.
type SearchService struct {
	client *core.Client
}

func NewSearch(client *core.Client) *SearchService {
	return &SearchService{client: client}
}

// Search runs a full-text query across companies, articles and reviews.
// An empty kind defaults to SearchAll.
func (s *SearchService) Search(ctx context.Context, query string, page int, kind SearchType) (*core.SearchResults, error) {
	if query == "" {
		return nil, core.ErrQueryRequired
	}
	if kind == "" {
		kind = SearchAll
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("type", string(kind))
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	var results core.SearchResults
	if err := s.client.Do(ctx, http.MethodGet, "/search", q, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

type suggestionsResponse struct {
	Suggestions []core.Suggestion `json:"suggestions"`
}

// Suggestions returns typeahead entries for a partial query. Queries
// shorter than two characters return nothing without touching the network.
func (s *SearchService) Suggestions(ctx context.Context, query string) ([]core.Suggestion, error) {
	if len([]rune(query)) < minSuggestionQuery {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", query)

	var resp suggestionsResponse
	if err := s.client.Do(ctx, http.MethodGet, "/search/suggestions", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}
