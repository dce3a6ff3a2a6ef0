package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"arquivo/internal/backend"
	"arquivo/internal/search"
	"arquivo/internal/service"
)

// downloadExpiry bounds how long a presigned download URL stays valid.
const downloadExpiry = 15 * time.Minute

// documentRequest is the JSON create/update body.
type documentRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	Content     json.RawMessage `json:"content"`
	Author      string          `json:"author"`
	Owner       string          `json:"owner"`
}

// relationRequest is the JSON body for creating a relation edge.
type relationRequest struct {
	ChildID      int64  `json:"child_id"`
	RelationType string `json:"relation_type"`
	Description  string `json:"description"`
	CreatedBy    string `json:"created_by"`
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers stay
// thin: parse, delegate, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, searchEng *search.Engine, health *backend.Health) {
	// Health reports DB connectivity plus the storage availability latch.
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		overall := "healthy"
		status := fiber.StatusOK

		dbStatus := "up"
		if db == nil {
			dbStatus = "down"
		} else if err := db.PingContext(ctx); err != nil {
			dbStatus = "down"
		}
		if dbStatus == "down" {
			overall = "unhealthy"
			status = fiber.StatusServiceUnavailable
		}

		storageStatus := "up"
		if health != nil && !health.Available() {
			// The latch is one-way: once tripped the service keeps running on
			// the in-process fallback but reports itself degraded.
			storageStatus = "degraded"
			if overall == "healthy" {
				overall = "degraded"
			}
		}

		return c.Status(status).JSON(fiber.Map{
			"status":   overall,
			"database": dbStatus,
			"storage":  storageStatus,
		})
	})

	// Plain liveness probe.
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/documents", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	// Search must come before /documents/:id or Fiber matches "search" as an id.
	app.Get("/documents/search", func(c *fiber.Ctx) error {
		docs := searchEng.Search(
			c.UserContext(),
			c.Query("q"),
			c.Query("category"),
			splitTags(c.Query("tags")),
		)
		return c.JSON(fiber.Map{"data": docs, "total": len(docs)})
	})

	// Create: multipart (file + metadata fields) or plain JSON (metadata only).
	app.Post("/documents", func(c *fiber.Ctx) error {
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}

			in := service.CreateDocumentInput{
				Title:       c.FormValue("title"),
				Description: c.FormValue("description"),
				Category:    c.FormValue("category"),
				Tags:        splitTags(c.FormValue("tags")),
				Content:     c.FormValue("metadata"),
				Author:      c.FormValue("author"),
				Owner:       c.FormValue("owner"),
			}
			if in.Title == "" {
				in.Title = fh.Filename
			}

			doc, err := docSvc.CreateFromUpload(c.UserContext(), in, f, fh.Filename, ct, c.FormValue("bucket"), nil)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(doc)
		}

		var req documentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := docSvc.Create(c.UserContext(), service.CreateDocumentInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Tags:        req.Tags,
			Content:     string(req.Content),
			Author:      req.Author,
			Owner:       req.Owner,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	})

	app.Get("/documents/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	})

	app.Put("/documents/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req documentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := docSvc.Update(c.UserContext(), id, service.UpdateDocumentInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Tags:        req.Tags,
			Content:     string(req.Content),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	})

	app.Delete("/documents/:id", func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/documents/:id/relations", func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req relationRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		rel, err := docSvc.AddRelation(c.UserContext(), id, service.RelationInput{
			ChildID:      req.ChildID,
			RelationType: req.RelationType,
			Description:  req.Description,
			CreatedBy:    req.CreatedBy,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rel)
	})

	app.Get("/documents/:id/relations", func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rels, err := docSvc.Relations(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": rels, "total": len(rels)})
	})

	app.Get("/documents/:id/related", func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		docs, err := docSvc.Related(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs, "total": len(docs)})
	})

	app.Get("/documents/:id/download", func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := docSvc.DownloadURL(c.UserContext(), id, downloadExpiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url, "expires_in": int(downloadExpiry.Seconds())})
	})
}
