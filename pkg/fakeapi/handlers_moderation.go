package fakeapi

import (
	"errors"
	"sort"

	"github.com/gofiber/fiber/v3"

	"github.com/dmalakhov/spravka/core"
)

type moderateInput struct {
	Status core.ModerationStatus `json:"status"`
}

// decodeStatus parses and validates the status body. It never writes the
// response itself; the handler maps a non-nil error to the 400, so a
// rejection always short-circuits before any state changes.
func decodeStatus(c fiber.Ctx) (core.ModerationStatus, error) {
	var in moderateInput
	if err := c.Bind().Body(&in); err != nil {
		return "", errors.New("invalid request body")
	}
	if !in.Status.Valid() {
		return "", errors.New("Invalid status")
	}
	return in.Status, nil
}

func (s *Server) handleModerateCompany(c fiber.Ctx) error {
	status, err := decodeStatus(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, err.Error())
	}
	id, perr := pathID(c)
	if perr != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid company id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	co, ok := s.companies[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Company not found")
	}
	co.Status = status

	return c.JSON(fiber.Map{"message": "Company status updated", "company": co})
}

func (s *Server) handleModerateArticle(c fiber.Ctx) error {
	status, err := decodeStatus(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, err.Error())
	}
	id, perr := pathID(c)
	if perr != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid article id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Article not found")
	}
	a.Status = status

	return c.JSON(fiber.Map{"message": "Article status updated", "article": a})
}

func (s *Server) handleModerateComment(c fiber.Ctx) error {
	status, err := decodeStatus(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, err.Error())
	}
	id, perr := pathID(c)
	if perr != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid comment id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cm, ok := s.comments[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Comment not found")
	}
	cm.Status = status

	return c.JSON(fiber.Map{"message": "Comment status updated", "comment": cm})
}

func (s *Server) handleModerateReview(c fiber.Ctx) error {
	status, err := decodeStatus(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, err.Error())
	}
	id, perr := pathID(c)
	if perr != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid review id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Review not found")
	}
	r.Status = status
	s.recalcRating(r.CompanyID)

	return c.JSON(fiber.Map{"message": "Review status updated", "review": r})
}

func (s *Server) handleModerationCompanies(c fiber.Ctx) error {
	status := core.ModerationStatus(c.Query("status", string(core.StatusPending)))
	if !status.Valid() {
		status = core.StatusPending
	}
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)

	s.mu.Lock()
	var matched []core.Company
	for _, co := range s.companies {
		if co.Status == status {
			matched = append(matched, *co)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	lo, hi, meta := pageWindow(len(matched), page, perPage)
	return c.JSON(core.CompanyPage{Companies: matched[lo:hi], Page: meta})
}

func (s *Server) handlePendingQueue(c fiber.Ctx) error {
	status := core.ModerationStatus(c.Query("status", string(core.StatusPending)))
	if !status.Valid() {
		status = core.StatusPending
	}
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.Params("type") {
	case "companies":
		var matched []core.Company
		for _, co := range s.companies {
			if co.Status == status {
				matched = append(matched, *co)
			}
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
		lo, hi, meta := pageWindow(len(matched), page, perPage)
		return c.JSON(fiber.Map{"companies": matched[lo:hi], "total": meta.Total, "pages": meta.Pages, "current_page": meta.CurrentPage, "per_page": meta.PerPage})
	case "articles":
		var matched []core.Article
		for _, a := range s.articles {
			if a.Status == status {
				ac := *a
				ac.Comments = nil
				matched = append(matched, ac)
			}
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
		lo, hi, meta := pageWindow(len(matched), page, perPage)
		return c.JSON(fiber.Map{"articles": matched[lo:hi], "total": meta.Total, "pages": meta.Pages, "current_page": meta.CurrentPage, "per_page": meta.PerPage})
	case "comments":
		var matched []core.Comment
		for _, cm := range s.comments {
			if cm.Status == status {
				matched = append(matched, *cm)
			}
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
		lo, hi, meta := pageWindow(len(matched), page, perPage)
		return c.JSON(fiber.Map{"comments": matched[lo:hi], "total": meta.Total, "pages": meta.Pages, "current_page": meta.CurrentPage, "per_page": meta.PerPage})
	case "reviews":
		var matched []core.Review
		for _, r := range s.reviews {
			if r.Status == status {
				matched = append(matched, *r)
			}
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
		lo, hi, meta := pageWindow(len(matched), page, perPage)
		return c.JSON(fiber.Map{"reviews": matched[lo:hi], "total": meta.Total, "pages": meta.Pages, "current_page": meta.CurrentPage, "per_page": meta.PerPage})
	}

	return errJSON(c, fiber.StatusBadRequest, "Unknown moderation type")
}
