package devstore

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"

	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/persist"
)

// Options configures the HTTP app.
type Options struct {
	AppName    string
	LogRequest bool
}

// NewApp returns a fiber app serving repo:
//
//	GET    /:collection            list saved plans
//	GET    /:collection/:id        load
//	PUT    /:collection/:id        save (replace the pages sent)
//	DELETE /:collection/:id        delete
//	GET    /:collection/:id/exists exists
func NewApp(repo *Repository, opts Options) *fiber.App {
	if opts.AppName == "" {
		opts.AppName = "Floorplan Store"
	}
	app := fiber.New(fiber.Config{AppName: opts.AppName})
	app.Use(recover.New())
	if opts.LogRequest {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	h := &handler{repo: repo}
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/:collection", h.list)
	app.Get("/:collection/:id/exists", h.exists)
	app.Get("/:collection/:id", h.load)
	app.Put("/:collection/:id", h.save)
	app.Delete("/:collection/:id", h.remove)
	return app
}

type handler struct {
	repo *Repository
	mu   sync.Mutex
}

func (h *handler) list(c fiber.Ctx) error {
	targets, err := h.repo.Targets(context.Background(), c.Params("collection"))
	if err != nil {
		log.Printf("[STORE] list error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "list failed"})
	}
	if targets == nil {
		targets = []string{}
	}
	return c.JSON(fiber.Map{"targets": targets})
}

func (h *handler) load(c fiber.Ctx) error {
	body, err := h.repo.Get(context.Background(), c.Params("collection"), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "plan not found"})
	}
	if err != nil {
		log.Printf("[STORE] load error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "load failed"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *handler) save(c fiber.Ctx) error {
	var doc persist.Document
	if err := json.Unmarshal(c.Body(), &doc); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	n := AssignIDs(&doc)
	collection, target := c.Params("collection"), c.Params("id")

	// Read, merge and write under one lock so concurrent page saves
	// cannot drop each other's records.
	h.mu.Lock()
	defer h.mu.Unlock()

	var prev *persist.Document
	stored, err := h.repo.Get(context.Background(), collection, target)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		log.Printf("[STORE] save error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "save failed"})
	default:
		prev = &persist.Document{}
		if err := json.Unmarshal(stored, prev); err != nil {
			log.Printf("[STORE] replacing unreadable %s/%s: %v", collection, target, err)
			prev = nil
		}
	}

	merged, err := json.Marshal(MergePages(prev, doc))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "encode failed"})
	}
	if err := h.repo.Put(context.Background(), collection, target, merged); err != nil {
		log.Printf("[STORE] save error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "save failed"})
	}
	log.Printf("[STORE] saved %s/%s: %d elements, %d new ids", collection, target, len(doc.Elements), n)

	// The response lists only the records sent, in order, so the client
	// can match ids by position.
	body, err := json.Marshal(doc)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "encode failed"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// recordPage is the page a record lives on; an absent page is page 1.
func recordPage(r persist.Record) int {
	if r.PageNumber < 1 {
		return 1
	}
	return r.PageNumber
}

// MergePages replaces the pages doc covers and keeps every other page of
// prev. doc covers its own pageNumber (page 1 when absent) and the page
// of each record it carries, so saving an empty page clears that page
// only. The view settings come from doc.
func MergePages(prev *persist.Document, doc persist.Document) persist.Document {
	covered := map[int]bool{recordPage(persist.Record{PageNumber: doc.PageNumber}): true}
	for _, r := range doc.Elements {
		covered[recordPage(r)] = true
	}
	out := doc
	out.Elements = make([]persist.Record, 0, len(doc.Elements))
	if prev != nil {
		for _, r := range prev.Elements {
			if !covered[recordPage(r)] {
				out.Elements = append(out.Elements, r)
			}
		}
	}
	out.Elements = append(out.Elements, doc.Elements...)
	return out
}

func (h *handler) remove(c fiber.Ctx) error {
	err := h.repo.Delete(context.Background(), c.Params("collection"), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "plan not found"})
	}
	if err != nil {
		log.Printf("[STORE] delete error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.SendStatus(204)
}

func (h *handler) exists(c fiber.Ctx) error {
	ok, err := h.repo.Exists(context.Background(), c.Params("collection"), c.Params("id"))
	if err != nil {
		log.Printf("[STORE] exists error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(fiber.Map{"exists": ok})
}

// AssignIDs gives a server id to every record whose id is missing or
// client-local, and points parentId references at the new ids. It
// returns how many ids were assigned.
func AssignIDs(doc *persist.Document) int {
	renamed := make(map[string]string)
	n := 0
	for i := range doc.Elements {
		r := &doc.Elements[i]
		if r.ID != nil && *r.ID != "" && !strings.HasPrefix(*r.ID, element.LocalIDPrefix) {
			continue
		}
		id := uuid.NewString()
		if r.ID != nil && *r.ID != "" {
			renamed[*r.ID] = id
		}
		r.ID = &id
		n++
	}
	for i := range doc.Elements {
		r := &doc.Elements[i]
		if r.ParentID == nil {
			continue
		}
		if id, ok := renamed[*r.ParentID]; ok {
			r.ParentID = &id
		}
	}
	return n
}
