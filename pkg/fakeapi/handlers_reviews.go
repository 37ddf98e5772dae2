package fakeapi

import (
	"sort"

	"github.com/gofiber/fiber/v3"

	"github.com/dmalakhov/spravka/core"
)

type reviewInput struct {
	CompanyID int64    `json:"company_id"`
	Rating    int      `json:"rating"`
	Text      string   `json:"text"`
	Photos    []string `json:"photos"`
}

func (s *Server) handleCreateReview(c fiber.Ctx) error {
	var in reviewInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if in.CompanyID == 0 || in.Rating == 0 {
		return errJSON(c, fiber.StatusBadRequest, "Company ID and rating are required")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[in.CompanyID]; !ok {
		return errJSON(c, fiber.StatusNotFound, "Company not found")
	}
	for _, r := range s.reviews {
		if r.CompanyID == in.CompanyID && r.Author != nil && r.Author.ID == user.ID {
			return errJSON(c, fiber.StatusBadRequest, "You have already reviewed this company")
		}
	}

	r := &core.Review{
		ID:        s.id(),
		CompanyID: in.CompanyID,
		Rating:    in.Rating,
		Text:      in.Text,
		Photos:    in.Photos,
		Status:    core.StatusPending,
		Author:    &core.Owner{ID: user.ID, Name: user.Name, Avatar: user.Avatar},
	}
	s.reviews[r.ID] = r

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review created successfully",
		"review":  r,
	})
}

func (s *Server) handleGetReview(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid review id")
	}

	s.mu.Lock()
	r, ok := s.reviews[id]
	s.mu.Unlock()

	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Review not found")
	}
	return c.JSON(r)
}

func (s *Server) handleUpdateReview(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid review id")
	}
	var in reviewInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Review not found")
	}
	if (r.Author == nil || r.Author.ID != user.ID) && user.Role != core.RoleAdmin {
		return errJSON(c, fiber.StatusForbidden, "Access denied")
	}

	if in.Rating != 0 {
		r.Rating = in.Rating
	}
	r.Text = in.Text
	if in.Photos != nil {
		r.Photos = in.Photos
	}
	// Edits go back through moderation.
	r.Status = core.StatusPending
	s.recalcRating(r.CompanyID)

	return c.JSON(fiber.Map{"message": "Review updated successfully", "review": r})
}

func (s *Server) handleDeleteReview(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid review id")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Review not found")
	}
	if (r.Author == nil || r.Author.ID != user.ID) && user.Role != core.RoleAdmin {
		return errJSON(c, fiber.StatusForbidden, "Access denied")
	}

	delete(s.reviews, id)
	s.recalcRating(r.CompanyID)

	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

func (s *Server) handleCompanyReviews(c fiber.Ctx) error {
	companyID, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid company id")
	}
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)

	s.mu.Lock()
	var matched []core.Review
	for _, r := range s.reviews {
		if r.CompanyID == companyID && r.Status == core.StatusApproved {
			matched = append(matched, *r)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	lo, hi, meta := pageWindow(len(matched), page, perPage)
	return c.JSON(core.ReviewPage{Reviews: matched[lo:hi], Page: meta})
}

func (s *Server) handleUserReviews(c fiber.Ctx) error {
	user := currentUser(c)
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)

	s.mu.Lock()
	var matched []core.Review
	for _, r := range s.reviews {
		if r.Author != nil && r.Author.ID == user.ID {
			rc := *r
			if co, ok := s.companies[r.CompanyID]; ok {
				coCopy := *co
				rc.Company = &coCopy
			}
			matched = append(matched, rc)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	lo, hi, meta := pageWindow(len(matched), page, perPage)
	return c.JSON(core.ReviewPage{Reviews: matched[lo:hi], Page: meta})
}
