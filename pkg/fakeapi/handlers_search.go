package fakeapi

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/dmalakhov/spravka/core"
)

const maxSuggestions = 10

func (s *Server) handleSearch(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	kind := c.Query("type", "all")
	if query == "" {
		return errJSON(c, fiber.StatusBadRequest, "Search query is required")
	}
	needle := strings.ToLower(query)

	results := core.SearchResults{Query: query}

	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == "all" || kind == "companies" {
		for _, co := range s.companies {
			if co.Status != core.StatusApproved {
				continue
			}
			if strings.Contains(strings.ToLower(co.Name), needle) ||
				strings.Contains(strings.ToLower(co.Description), needle) {
				results.Companies = append(results.Companies, *co)
			}
		}
		sort.Slice(results.Companies, func(i, j int) bool {
			return results.Companies[i].ID < results.Companies[j].ID
		})
		results.Total += len(results.Companies)
	}

	if kind == "all" || kind == "articles" {
		for _, a := range s.articles {
			if a.Status != core.StatusApproved {
				continue
			}
			if strings.Contains(strings.ToLower(a.Title), needle) ||
				strings.Contains(strings.ToLower(a.Content), needle) {
				ac := *a
				ac.Comments = nil
				results.Articles = append(results.Articles, ac)
			}
		}
		sort.Slice(results.Articles, func(i, j int) bool {
			return results.Articles[i].ID < results.Articles[j].ID
		})
		results.Total += len(results.Articles)
	}

	if kind == "all" || kind == "reviews" {
		for _, r := range s.reviews {
			if r.Status != core.StatusApproved {
				continue
			}
			if strings.Contains(strings.ToLower(r.Text), needle) {
				results.Reviews = append(results.Reviews, *r)
			}
		}
		sort.Slice(results.Reviews, func(i, j int) bool {
			return results.Reviews[i].ID < results.Reviews[j].ID
		})
		results.Total += len(results.Reviews)
	}

	return c.JSON(results)
}

func (s *Server) handleSuggestions(c fiber.Ctx) error {
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if len(query) < 2 {
		return c.JSON(fiber.Map{"suggestions": []core.Suggestion{}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	suggestions := []core.Suggestion{}
	seen := make(map[string]bool)
	add := func(kind, text string, id int64) {
		key := kind + ":" + text
		if text == "" || seen[key] || len(suggestions) >= maxSuggestions {
			return
		}
		seen[key] = true
		suggestions = append(suggestions, core.Suggestion{Type: kind, Text: text, ID: id})
	}

	for _, co := range s.companies {
		if co.Status != core.StatusApproved {
			continue
		}
		if strings.Contains(strings.ToLower(co.Name), query) {
			add("company", co.Name, co.ID)
		}
		if strings.Contains(strings.ToLower(co.Category), query) {
			add("category", co.Category, 0)
		}
		if strings.Contains(strings.ToLower(co.City), query) {
			add("city", co.City, 0)
		}
	}
	for _, a := range s.articles {
		if a.Status != core.StatusApproved {
			continue
		}
		if strings.Contains(strings.ToLower(a.Title), query) {
			add("article", a.Title, a.ID)
		}
	}

	return c.JSON(fiber.Map{"suggestions": suggestions})
}
