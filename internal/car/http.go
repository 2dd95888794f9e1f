package car

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/CarTrax/CarTrax/internal/common/logger"
	"github.com/gofiber/fiber/v2"
)

// Handler is the thin HTTP layer over the car service: parse, delegate,
// map result to status code. No policy lives here.
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the car endpoints under /api/cars. The literal
// routes (vin/license/filter) go before /:id so they are not shadowed.
func RegisterRoutes(app fiber.Router, h *Handler) {
	g := app.Group("/api/cars")
	g.Get("/vin/:vin", h.GetByVIN)
	g.Get("/license/:plate", h.GetByLicensePlate)
	g.Get("/filter", h.Filter)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Post("/", h.Create)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

func (h *Handler) List(c *fiber.Ctx) error {
	expand := c.QueryBool("expand")
	rows, err := h.svc.List(c.Context(), ListOptions{
		IncludeSpec: c.QueryBool("includeSpec", true),
		Expand:      expand,
	})
	if err != nil {
		h.log.Errorf("list cars: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(rows)
}

func (h *Handler) Filter(c *fiber.Ctx) error {
	var f FilterOptions
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid year"})
		}
		f.Year = &y
	}
	f.Make = c.Query("make")
	f.Model = c.Query("model")

	rows, err := h.svc.Filter(c.Context(), f, c.QueryBool("expand"))
	if err != nil {
		h.log.Errorf("filter cars: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(rows)
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	return h.get(c, func(expand bool) (*CarWithSpec, error) {
		return h.svc.GetByID(c.Context(), c.Params("id"), expand)
	})
}

func (h *Handler) GetByVIN(c *fiber.Ctx) error {
	return h.get(c, func(expand bool) (*CarWithSpec, error) {
		return h.svc.GetByVIN(c.Context(), c.Params("vin"), expand)
	})
}

func (h *Handler) GetByLicensePlate(c *fiber.Ctx) error {
	return h.get(c, func(expand bool) (*CarWithSpec, error) {
		return h.svc.GetByLicensePlate(c.Context(), c.Params("plate"), expand)
	})
}

func (h *Handler) get(c *fiber.Ctx, fetch func(expand bool) (*CarWithSpec, error)) error {
	row, err := fetch(c.QueryBool("expand"))
	if err != nil {
		h.log.Errorf("get car: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	if row == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "car not found"})
	}
	return c.JSON(row)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	body, err := decodeBody(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	created, err := h.svc.CreateWithBlankSpec(c.Context(), body)
	if errors.Is(err, ErrInvalidPayload) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err != nil {
		h.log.Errorf("create car: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	body, err := decodeBody(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	updated, err := h.svc.UpdateCarAndSpec(c.Context(), c.Params("id"), body, c.QueryBool("allowNull"))
	if errors.Is(err, ErrInvalidPayload) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err != nil {
		h.log.Errorf("update car id=%s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	if updated == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "car not found"})
	}
	return c.JSON(updated)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	ok, err := h.svc.DeleteCarAndSpec(c.Context(), c.Params("id"))
	if err != nil {
		h.log.Errorf("delete car id=%s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "car not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// decodeBody unmarshals the raw body without assuming a shape; the service
// decides whether the result is a valid structured payload.
func decodeBody(c *fiber.Ctx) (interface{}, error) {
	var body interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return nil, err
	}
	return body, nil
}
