package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/admin/stats", h.getStats)
	app.Get("/api/admin/orders/recent", h.getRecentOrders)
	app.Get("/api/admin/users/recent", h.getRecentUsers)
}

func (h *Handler) getStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "could not load stats"})
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

func (h *Handler) getRecentOrders(c *fiber.Ctx) error {
	orders, err := h.service.RecentOrders(limitQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "could not load recent orders"})
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

func (h *Handler) getRecentUsers(c *fiber.Ctx) error {
	users, err := h.service.RecentUsers(limitQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "could not load recent users"})
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}

func limitQuery(c *fiber.Ctx) int {
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			return v
		}
	}
	return 10
}
