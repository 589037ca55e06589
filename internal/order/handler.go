package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendaviva/storefront-backend/internal/user"
)

// Handler exposes the order API. Creation and single-order lookup are
// public (guest checkout, order tracking links); listing and status changes
// belong to the admin console and sit behind the JWT middleware.
type Handler struct {
	service    *Service
	assembler  *Assembler
	production bool
}

func NewHandler(s *Service, a *Assembler, production bool) *Handler {
	return &Handler{service: s, assembler: a, production: production}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/orders", h.createOrder)
	app.Get("/api/orders/:id", h.getOrder)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/orders", h.listOrders)
	// bulk route first so it is not swallowed by :id/status
	app.Put("/api/orders/bulk/cancel", h.bulkCancel)
	app.Put("/api/orders/:id/status", h.updateStatus)
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(CreateOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
			"errors":  []string{err.Error()},
		})
	}

	// guest checkout is allowed; a valid bearer token just ties the order
	// to the account
	userID := user.OptionalUserID(c)

	created, err := h.service.Create(*payload, userID)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "order validation failed",
				"errors":  verr.Errors,
			})
		}
		return h.serverError(c, "could not create order", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   h.assembler.Assemble(created),
	})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	ord, err := h.service.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c)
		}
		return h.serverError(c, "could not load order", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   h.assembler.Assemble(ord),
	})
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	orders, err := h.service.List()
	if err != nil {
		return h.serverError(c, "could not load orders", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  h.assembler.AssembleAll(orders),
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if payload.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "status is required"})
	}

	requested, err := ParseStatus(payload.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	updated, previous, err := h.service.UpdateStatus(c.Params("id"), requested)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c)
		}
		var terr *StateTransitionError
		if errors.As(err, &terr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": terr.Error()})
		}
		return h.serverError(c, "could not update order status", err)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"order":          h.assembler.Assemble(updated),
		"previousStatus": previous,
		"newStatus":      updated.Status,
	})
}

type bulkCancelRequest struct {
	OrderIDs []string `json:"orderIds"`
}

func (h *Handler) bulkCancel(c *fiber.Ctx) error {
	payload := new(bulkCancelRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if len(payload.OrderIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "orderIds must not be empty"})
	}

	count, err := h.service.BulkCancel(payload.OrderIDs)
	if err != nil {
		return h.serverError(c, "could not cancel orders", err)
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"cancelledCount": count,
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "order not found"})
}

// serverError hides internal error detail in production responses; the full
// error always goes to the log.
func (h *Handler) serverError(c *fiber.Ctx, msg string, err error) error {
	logger.Error().Err(err).Str("path", c.Path()).Msg(msg)
	body := fiber.Map{"success": false, "message": msg}
	if !h.production {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}
