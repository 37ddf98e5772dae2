package fakeapi

import (
	"slices"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/dmalakhov/spravka/core"
)

func (s *Server) handleListArticles(c fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)
	tag := c.Query("tag")
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	var matched []core.Article
	for _, a := range s.articles {
		if a.Status != core.StatusApproved {
			continue
		}
		if tag != "" && !slices.Contains(a.Tags, tag) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Content), search) {
			continue
		}
		ac := *a
		ac.Comments = nil // listings carry no comment bodies
		matched = append(matched, ac)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	lo, hi, meta := pageWindow(len(matched), page, perPage)
	return c.JSON(core.ArticlePage{Articles: matched[lo:hi], Page: meta})
}

func (s *Server) handleGetArticle(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid article id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Article not found")
	}
	a.Views++

	out := *a
	out.Comments = nil
	for _, cm := range s.comments {
		if cm.ArticleID == id && cm.Status == core.StatusApproved {
			out.Comments = append(out.Comments, *cm)
		}
	}
	sort.Slice(out.Comments, func(i, j int) bool { return out.Comments[i].ID < out.Comments[j].ID })

	return c.JSON(out)
}

type articleInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"cover_image"`
	Tags       []string `json:"tags"`
}

func (s *Server) handleCreateArticle(c fiber.Ctx) error {
	var in articleInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if in.Title == "" || in.Content == "" {
		return errJSON(c, fiber.StatusBadRequest, "Title and content are required")
	}

	user := currentUser(c)

	s.mu.Lock()
	a := &core.Article{
		ID:         s.id(),
		Title:      in.Title,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		CoverImage: in.CoverImage,
		Tags:       in.Tags,
		Status:     core.StatusPending,
		Author:     &core.Owner{ID: user.ID, Name: user.Name, Avatar: user.Avatar},
	}
	s.articles[a.ID] = a
	s.mu.Unlock()

	return c.JSON(fiber.Map{"message": "Article created successfully", "article": a})
}

func (s *Server) handleUpdateArticle(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid article id")
	}
	var in articleInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Article not found")
	}
	if (a.Author == nil || a.Author.ID != user.ID) && user.Role != core.RoleAdmin {
		return errJSON(c, fiber.StatusForbidden, "Access denied")
	}

	a.Title = in.Title
	a.Content = in.Content
	a.Excerpt = in.Excerpt
	if in.CoverImage != "" {
		a.CoverImage = in.CoverImage
	}
	if in.Tags != nil {
		a.Tags = in.Tags
	}
	a.Status = core.StatusPending

	return c.JSON(fiber.Map{"message": "Article updated successfully", "article": a})
}

func (s *Server) handleDeleteArticle(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid article id")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Article not found")
	}
	if (a.Author == nil || a.Author.ID != user.ID) && user.Role != core.RoleAdmin {
		return errJSON(c, fiber.StatusForbidden, "Access denied")
	}

	delete(s.articles, id)
	for cid, cm := range s.comments {
		if cm.ArticleID == id {
			delete(s.comments, cid)
		}
	}

	return c.JSON(fiber.Map{"message": "Article deleted successfully"})
}

type commentInput struct {
	Text string `json:"text"`
}

func (s *Server) handleCreateComment(c fiber.Ctx) error {
	articleID, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid article id")
	}
	var in commentInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if in.Text == "" {
		return errJSON(c, fiber.StatusBadRequest, "Text is required")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[articleID]; !ok {
		return errJSON(c, fiber.StatusNotFound, "Article not found")
	}

	cm := &core.Comment{
		ID:        s.id(),
		ArticleID: articleID,
		Text:      in.Text,
		Status:    core.StatusPending,
		Author:    &core.Owner{ID: user.ID, Name: user.Name, Avatar: user.Avatar},
	}
	s.comments[cm.ID] = cm

	return c.JSON(fiber.Map{"message": "Comment created successfully", "comment": cm})
}

func (s *Server) handleGetComment(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid comment id")
	}

	s.mu.Lock()
	cm, ok := s.comments[id]
	s.mu.Unlock()

	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Comment not found")
	}
	return c.JSON(cm)
}

func (s *Server) handleUpdateComment(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid comment id")
	}
	var in commentInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if in.Text == "" {
		return errJSON(c, fiber.StatusBadRequest, "Text is required")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	cm, ok := s.comments[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Comment not found")
	}
	if (cm.Author == nil || cm.Author.ID != user.ID) && user.Role != core.RoleAdmin {
		return errJSON(c, fiber.StatusForbidden, "Access denied")
	}

	cm.Text = in.Text
	cm.Status = core.StatusPending

	return c.JSON(fiber.Map{"message": "Comment updated successfully", "comment": cm})
}

func (s *Server) handleDeleteComment(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid comment id")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	cm, ok := s.comments[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Comment not found")
	}
	if (cm.Author == nil || cm.Author.ID != user.ID) && user.Role != core.RoleAdmin {
		return errJSON(c, fiber.StatusForbidden, "Access denied")
	}

	delete(s.comments, id)
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

func (s *Server) handleTags(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	out := []string{}
	for _, a := range s.articles {
		if a.Status != core.StatusApproved {
			continue
		}
		for _, t := range a.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return c.JSON(out)
}
