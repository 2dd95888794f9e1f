package parts

import (
	"errors"
	"strconv"

	"github.com/CarTrax/CarTrax/internal/common/logger"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handler adapts the part-catalog repo to HTTP. The :type path segment is a
// friendly label ("Brake Pad"), resolved to a table before any access.
type Handler struct {
	repo *Repo
	log  logger.Logger
}

func NewHandler(repo *Repo, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// RegisterRoutes mounts the generic part endpoints under /api/parts.
func RegisterRoutes(app fiber.Router, h *Handler) {
	g := app.Group("/api/parts")
	g.Get("/:type", h.List)
	g.Get("/:type/:id", h.GetByID)
	g.Post("/:type", h.Create)
	g.Patch("/:type/:id", h.Update)
	g.Delete("/:type/:id", h.Delete)
}

func (h *Handler) resolveType(c *fiber.Ctx) (Table, bool) {
	t, ok := ResolveLabel(c.Params("type"))
	if !ok {
		// try the raw table name too, so API clients may use either form
		t, ok = ResolveTable(c.Params("type"))
	}
	return t, ok
}

func parseID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}

func (h *Handler) List(c *fiber.Ctx) error {
	t, ok := h.resolveType(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown part type: " + c.Params("type")})
	}
	rows, err := h.repo.List(c.Context(), t)
	if err != nil {
		h.log.Errorf("list parts table=%s: %v", t, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	if rows == nil {
		rows = []Part{}
	}
	return c.JSON(rows)
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	t, ok := h.resolveType(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown part type: " + c.Params("type")})
	}
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	p, err := h.repo.GetByID(c.Context(), t, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	if err != nil {
		h.log.Errorf("get part table=%s id=%d: %v", t, id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(p)
}

type partBody struct {
	Data *string `json:"data"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	t, ok := h.resolveType(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown part type: " + c.Params("type")})
	}
	var body partBody
	if err := c.BodyParser(&body); err != nil || body.Data == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.repo.Create(c.Context(), t, *body.Data)
	if err != nil {
		h.log.Errorf("create part table=%s: %v", t, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	t, ok := h.resolveType(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown part type: " + c.Params("type")})
	}
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	var body partBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.repo.Update(c.Context(), t, id, body.Data)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	if err != nil {
		h.log.Errorf("update part table=%s id=%d: %v", t, id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(p)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	t, ok := h.resolveType(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown part type: " + c.Params("type")})
	}
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	ok, err = h.repo.Delete(c.Context(), t, id)
	if err != nil {
		h.log.Errorf("delete part table=%s id=%d: %v", t, id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
