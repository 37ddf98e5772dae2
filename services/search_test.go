package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dmalakhov/spravka/core"
)

// Requirement: search requires a query and defaults the type filter to all.
func TestSearchService_Search(t *testing.T) {
	// Arrange
	var gotQ, gotType string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		gotQ = r.URL.Query().Get("q")
		gotType = r.URL.Query().Get("type")
		writeJSON(t, w, http.StatusOK, core.SearchResults{
			Companies: []core.Company{{ID: 1, Name: "Pizza Acme"}},
			Total:     1,
			Query:     gotQ,
		})
	})
	service := NewSearch(client)

	// Act + Assert
	if _, err := service.Search(context.Background(), "", 0, SearchAll); !errors.Is(err, core.ErrQueryRequired) {
		t.Errorf("Search(empty) error = %v, want ErrQueryRequired", err)
	}

	results, err := service.Search(context.Background(), "pizza", 0, "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotQ != "pizza" || gotType != "all" {
		t.Errorf("query = q=%s type=%s, want q=pizza type=all", gotQ, gotType)
	}
	if results.Total != 1 || len(results.Companies) != 1 {
		t.Errorf("Search() = %+v, want one company match", results)
	}

	if _, err := service.Search(context.Background(), "pizza", 2, SearchArticles); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotType != "articles" {
		t.Errorf("type = %s, want articles", gotType)
	}
}

// Requirement: queries under two characters return nothing and never touch
// the network; multi-byte runes count as characters, not bytes.
func TestSearchService_Suggestions_MinQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantNet bool
	}{
		{name: "empty query", query: "", wantNet: false},
		{name: "single character", query: "p", wantNet: false},
		{name: "single multi-byte rune", query: "я", wantNet: false},
		{name: "two characters", query: "pi", wantNet: true},
		{name: "two multi-byte runes", query: "пи", wantNet: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			calls := 0
			client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				writeJSON(t, w, http.StatusOK, map[string]any{
					"suggestions": []core.Suggestion{{Type: "company", Text: "Pizza Acme", ID: 1}},
				})
			})
			service := NewSearch(client)

			// Act
			suggestions, err := service.Suggestions(context.Background(), test.query)

			// Assert
			if err != nil {
				t.Fatalf("Suggestions() error = %v", err)
			}
			if test.wantNet != (calls == 1) {
				t.Errorf("server calls = %d, wantNet %v", calls, test.wantNet)
			}
			if !test.wantNet && suggestions != nil {
				t.Errorf("Suggestions() = %v, want nil below the minimum query", suggestions)
			}
			if test.wantNet && len(suggestions) != 1 {
				t.Errorf("Suggestions() = %v, want one entry", suggestions)
			}
		})
	}
}
