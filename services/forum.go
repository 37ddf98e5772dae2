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

// ForumService wraps the /forum endpoints: articles, their comments and the
// tag list.
type ForumService struct {
	client  *core.Client
	lookups *cache.Memory[[]string]
}

func NewForum(client *core.Client, lookups *cache.Memory[[]string]) *ForumService {
	return &ForumService{client: client, lookups: lookups}
}

// ListArticlesOptions paginates and filters the article listing.
type ListArticlesOptions struct {
	Page    int
	PerPage int
	Tag     string
	Search  string
}

func (o ListArticlesOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// Articles returns one page of approved articles.
func (s *ForumService) Articles(ctx context.Context, opts ListArticlesOptions) (*core.ArticlePage, error) {
	var page core.ArticlePage
	if err := s.client.Do(ctx, http.MethodGet, "/forum/articles", opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Article returns one article with its comments. Each fetch counts a view.
func (s *ForumService) Article(ctx context.Context, id int64) (*core.Article, error) {
	var a core.Article
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/forum/articles/%d", id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ArticleInput carries the writable article fields.
type ArticleInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt,omitempty"`
	CoverImage string   `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (in ArticleInput) validate() error {
	if in.Title == "" {
		return core.ErrTitleRequired
	}
	if in.Content == "" {
		return core.ErrContentRequired
	}
	return nil
}

type articleResponse struct {
	Message string        `json:"message"`
	Article *core.Article `json:"article"`
}

// CreateArticle submits a new article; it awaits moderation before it shows
// up in the public listing.
func (s *ForumService) CreateArticle(ctx context.Context, in ArticleInput) (*core.Article, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var resp articleResponse
	if err := s.client.Do(ctx, http.MethodPost, "/forum/articles", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Article, nil
}

// UpdateArticle edits the caller's own article.
func (s *ForumService) UpdateArticle(ctx context.Context, id int64, in ArticleInput) (*core.Article, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var resp articleResponse
	if err := s.client.Do(ctx, http.MethodPut, fmt.Sprintf("/forum/articles/%d", id), nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Article, nil
}

// DeleteArticle removes an article and its comments.
func (s *ForumService) DeleteArticle(ctx context.Context, id int64) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/forum/articles/%d", id), nil, nil, nil)
}

type commentResponse struct {
	Message string        `json:"message"`
	Comment *core.Comment `json:"comment"`
}

// CreateComment posts a comment under an article.
func (s *ForumService) CreateComment(ctx context.Context, articleID int64, text string) (*core.Comment, error) {
	if text == "" {
		return nil, core.ErrTextRequired
	}
	var resp commentResponse
	path := fmt.Sprintf("/forum/articles/%d/comments", articleID)
	if err := s.client.Do(ctx, http.MethodPost, path, nil, map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Comment, nil
}

// UpdateComment edits the caller's own comment.
func (s *ForumService) UpdateComment(ctx context.Context, id int64, text string) (*core.Comment, error) {
	if text == "" {
		return nil, core.ErrTextRequired
	}
	var resp commentResponse
	path := fmt.Sprintf("/forum/comments/%d", id)
	if err := s.client.Do(ctx, http.MethodPut, path, nil, map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Comment, nil
}

// DeleteComment removes the caller's own comment.
func (s *ForumService) DeleteComment(ctx context.Context, id int64) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/forum/comments/%d", id), nil, nil, nil)
}

// Comment returns a single comment.
func (s *ForumService) Comment(ctx context.Context, id int64) (*core.Comment, error) {
	var c core.Comment
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/forum/comments/%d", id), nil, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Tags returns the distinct article tags, cached.
func (s *ForumService) Tags(ctx context.Context) ([]string, error) {
	if s.lookups != nil {
		if tags, err := s.lookups.Get("tags"); err == nil {
			return tags, nil
		}
	}

	var tags []string
	if err := s.client.Do(ctx, http.MethodGet, "/forum/tags", nil, nil, &tags); err != nil {
		return nil, err
	}

	if s.lookups != nil {
		_ = s.lookups.Set("tags", tags)
	}
	return tags, nil
}
