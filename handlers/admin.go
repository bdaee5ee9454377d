package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"goflare.io/display/promotion"
)

type AdminHandler interface {
	GetPromotion(c echo.Context) error
	InvalidateCache(c echo.Context) error
}

type adminHandler struct {
	Promotions promotion.Service
}

func NewAdminHandler(
	Promotions promotion.Service,
) AdminHandler {
	return &adminHandler{
		Promotions: Promotions,
	}
}

// GetPromotion handles GET /admin/promotions/:id
func (ah *adminHandler) GetPromotion(c echo.Context) error {
	p, err := ah.Promotions.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, promotion.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Promotion not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load promotion"})
	}
	return c.JSON(http.StatusOK, p)
}

// InvalidateCache handles DELETE /admin/promotions/cache
func (ah *adminHandler) InvalidateCache(c echo.Context) error {
	if err := ah.Promotions.Invalidate(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to invalidate promotion cache"})
	}
	return c.NoContent(http.StatusNoContent)
}
