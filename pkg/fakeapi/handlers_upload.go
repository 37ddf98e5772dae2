package fakeapi

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
)

func (s *Server) handleUpload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "No file provided")
	}
	if fh.Filename == "" {
		return errJSON(c, fiber.StatusBadRequest, "No file selected")
	}

	// Nothing is persisted; the fake only hands back a plausible URL the
	// way the real backend does.
	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), fh.Filename)
	return c.JSON(fiber.Map{
		"url":      "/static/uploads/" + name,
		"filename": name,
	})
}
