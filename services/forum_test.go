package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dmalakhov/spravka/core"
	"github.com/dmalakhov/spravka/pkg/cache"
)

// Requirement: an article needs a title and content before anything is sent.
func TestForumService_CreateArticle_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   ArticleInput
		wantErr error
	}{
		{name: "missing title", input: ArticleInput{Content: "body"}, wantErr: core.ErrTitleRequired},
		{name: "missing content", input: ArticleInput{Title: "t"}, wantErr: core.ErrContentRequired},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request should be sent for invalid input")
			})
			service := NewForum(client, nil)

			if _, err := service.CreateArticle(context.Background(), test.input); !errors.Is(err, test.wantErr) {
				t.Errorf("CreateArticle() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

// Requirement: tag and search filters land in the listing query.
func TestForumService_Articles(t *testing.T) {
	// Arrange
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forum/articles" {
			t.Errorf("path = %s, want /forum/articles", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("tag") != "howto" || q.Get("search") != "guide" {
			t.Errorf("query = %v, want tag=howto search=guide", q)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"articles":     []core.Article{{ID: 1, Title: "A guide", Tags: []string{"howto"}}},
			"total":        1,
			"pages":        1,
			"current_page": 1,
			"per_page":     10,
		})
	})
	service := NewForum(client, nil)

	// Act
	page, err := service.Articles(context.Background(), ListArticlesOptions{Tag: "howto", Search: "guide"})

	// Assert
	if err != nil {
		t.Fatalf("Articles() error = %v", err)
	}
	if len(page.Articles) != 1 || page.Articles[0].Title != "A guide" {
		t.Errorf("Articles() = %+v, want one matching article", page)
	}
}

// Requirement: comments require text, and the envelope is unwrapped.
func TestForumService_Comments(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forum/articles/4/comments" {
			t.Errorf("path = %s, want /forum/articles/4/comments", r.URL.Path)
		}
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"message": "Comment added",
			"comment": core.Comment{ID: 11, ArticleID: 4, Text: "nice", Status: core.StatusPending},
		})
	})
	service := NewForum(client, nil)

	if _, err := service.CreateComment(context.Background(), 4, ""); !errors.Is(err, core.ErrTextRequired) {
		t.Errorf("CreateComment(empty) error = %v, want ErrTextRequired", err)
	}
	if _, err := service.UpdateComment(context.Background(), 11, ""); !errors.Is(err, core.ErrTextRequired) {
		t.Errorf("UpdateComment(empty) error = %v, want ErrTextRequired", err)
	}

	comment, err := service.CreateComment(context.Background(), 4, "nice")
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if comment.ID != 11 || comment.Status != core.StatusPending {
		t.Errorf("CreateComment() = %+v, want id 11 pending", comment)
	}
}

// Requirement: the tag list is cached like the catalog lookups.
func TestForumService_Tags_Cached(t *testing.T) {
	calls := 0
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(t, w, http.StatusOK, []string{"howto", "news"})
	})
	service := NewForum(client, cache.NewMemory[[]string](cache.Config{}))

	for i := 0; i < 3; i++ {
		tags, err := service.Tags(context.Background())
		if err != nil {
			t.Fatalf("Tags() error = %v", err)
		}
		if len(tags) != 2 {
			t.Errorf("Tags() = %v, want two tags", tags)
		}
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
}
