package fakeapi

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/dmalakhov/spravka/core"
)

func (s *Server) handleListCompanies(c fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)
	category := c.Query("category")
	city := c.Query("city")
	search := strings.ToLower(c.Query("search"))
	minRating, _ := strconv.ParseFloat(c.Query("rating"), 64)
	ownerID, _ := strconv.ParseInt(c.Query("owner_id"), 10, 64)

	s.mu.Lock()
	var matched []core.Company
	for _, co := range s.companies {
		if ownerID > 0 {
			if co.OwnerID != ownerID {
				continue
			}
		} else if co.Status != core.StatusApproved {
			continue
		}
		if category != "" && co.Category != category {
			continue
		}
		if city != "" && co.City != city {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(co.Name), search) &&
			!strings.Contains(strings.ToLower(co.Description), search) {
			continue
		}
		if minRating > 0 && co.Rating < minRating {
			continue
		}
		matched = append(matched, *co)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })

	lo, hi, meta := pageWindow(len(matched), page, perPage)
	return c.JSON(core.CompanyPage{Companies: matched[lo:hi], Page: meta})
}

func (s *Server) handleGetCompany(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid company id")
	}

	s.mu.Lock()
	co, ok := s.companies[id]
	s.mu.Unlock()

	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Company not found")
	}
	return c.JSON(co)
}

type companyInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

func (s *Server) handleCreateCompany(c fiber.Ctx) error {
	var in companyInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if in.Name == "" || in.Category == "" || in.City == "" {
		return errJSON(c, fiber.StatusBadRequest, "Name, category and city are required")
	}

	user := currentUser(c)

	s.mu.Lock()
	co := &core.Company{
		ID:          s.id(),
		Name:        in.Name,
		Category:    in.Category,
		City:        in.City,
		Address:     in.Address,
		Phone:       in.Phone,
		Website:     in.Website,
		Description: in.Description,
		Logo:        in.Logo,
		Status:      core.StatusPending,
		OwnerID:     user.ID,
		Owner:       &core.Owner{ID: user.ID, Name: user.Name, Email: user.Email},
	}
	s.companies[co.ID] = co
	s.mu.Unlock()

	return c.JSON(fiber.Map{"message": "Company created successfully", "company": co})
}

func (s *Server) handleUpdateCompany(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid company id")
	}
	var in companyInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	co, ok := s.companies[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Company not found")
	}
	if co.OwnerID != user.ID && user.Role != core.RoleAdmin {
		return errJSON(c, fiber.StatusForbidden, "Access denied")
	}

	co.Name = in.Name
	co.Category = in.Category
	co.City = in.City
	co.Address = in.Address
	co.Phone = in.Phone
	co.Website = in.Website
	co.Description = in.Description
	if in.Logo != "" {
		co.Logo = in.Logo
	}

	return c.JSON(fiber.Map{"message": "Company updated successfully", "company": co})
}

func (s *Server) handleDeleteCompany(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid company id")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	co, ok := s.companies[id]
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "Company not found")
	}
	if co.OwnerID != user.ID && user.Role != core.RoleAdmin {
		return errJSON(c, fiber.StatusForbidden, "Access denied")
	}

	delete(s.companies, id)
	for rid, r := range s.reviews {
		if r.CompanyID == id {
			delete(s.reviews, rid)
		}
	}

	return c.JSON(fiber.Map{"message": "Company deleted successfully"})
}

func (s *Server) handleCategories(c fiber.Ctx) error {
	return c.JSON(s.distinct(func(co *core.Company) string { return co.Category }))
}

func (s *Server) handleCities(c fiber.Ctx) error {
	return c.JSON(s.distinct(func(co *core.Company) string { return co.City }))
}

func (s *Server) distinct(field func(*core.Company) string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	out := []string{}
	for _, co := range s.companies {
		if co.Status != core.StatusApproved {
			continue
		}
		if v := field(co); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// recalcRating refreshes a company's aggregate after review changes.
// Callers must hold s.mu.
func (s *Server) recalcRating(companyID int64) {
	co, ok := s.companies[companyID]
	if !ok {
		return
	}

	sum, count := 0, 0
	for _, r := range s.reviews {
		if r.CompanyID == companyID && r.Status == core.StatusApproved {
			sum += r.Rating
			count++
		}
	}

	co.ReviewCount = count
	if count == 0 {
		co.Rating = 0
		return
	}
	co.Rating = float64(sum) / float64(count)
}
