package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sahlct/E-Portal-server/internal/repository"
)

type DashboardHandler struct {
	products repository.ProductRepository
	log      *zap.Logger
}

func NewDashboardHandler(products repository.ProductRepository, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{products: products, log: log}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.products.Stats()
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": stats})
}
