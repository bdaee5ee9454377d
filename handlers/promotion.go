package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"goflare.io/display"
	"goflare.io/display/models"
	"goflare.io/display/models/enum"
	"goflare.io/display/session"
)

type PromotionHandler interface {
	GetDisplay(c echo.Context) error
	MarkShown(c echo.Context) error
	Dismiss(c echo.Context) error
}

type promotionHandler struct {
	Display display.Display
}

func NewPromotionHandler(
	Display display.Display,
) PromotionHandler {
	return &promotionHandler{
		Display: Display,
	}
}

type shownRequest struct {
	SessionID  string           `json:"session_id"`
	CustomerID string           `json:"customer_id"`
	BranchID   string           `json:"branch_id"`
	Mode       enum.DisplayMode `json:"mode"`
}

type dismissRequest struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id"`
	BranchID   string `json:"branch_id"`
}

// GetDisplay handles GET /promotions/display
func (ph *promotionHandler) GetDisplay(c echo.Context) error {
	tctx := models.TargetingContext{
		SessionID:  c.QueryParam("session_id"),
		BranchID:   c.QueryParam("branch_id"),
		CustomerID: c.QueryParam("customer_id"),
		UserRole:   c.QueryParam("user_role"),
	}
	if tctx.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}

	placement := enum.CarouselPosition(c.QueryParam("placement"))

	buckets := ph.Display.Schedule(c.Request().Context(), display.Request{
		Context:   tctx,
		Placement: placement,
	})

	return c.JSON(http.StatusOK, buckets)
}

// MarkShown handles POST /promotions/:id/shown
func (ph *promotionHandler) MarkShown(c echo.Context) error {
	var req shownRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if !req.Mode.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid display mode"})
	}

	err := ph.Display.RecordView(c.Request().Context(), display.Interaction{
		Context: models.TargetingContext{
			SessionID:  req.SessionID,
			CustomerID: req.CustomerID,
			BranchID:   req.BranchID,
		},
		PromotionID: c.Param("id"),
		Mode:        req.Mode,
		Device:      deviceFromRequest(c, models.DeviceInfo{}),
	})
	if errors.Is(err, session.ErrInvalidSession) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark promotion shown"})
	}

	return c.NoContent(http.StatusNoContent)
}

// Dismiss handles POST /promotions/:id/dismiss
func (ph *promotionHandler) Dismiss(c echo.Context) error {
	var req dismissRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	err := ph.Display.Dismiss(c.Request().Context(), display.Interaction{
		Context: models.TargetingContext{
			SessionID:  req.SessionID,
			CustomerID: req.CustomerID,
			BranchID:   req.BranchID,
		},
		PromotionID: c.Param("id"),
		Mode:        enum.DisplayModeBanner,
		Device:      deviceFromRequest(c, models.DeviceInfo{}),
	})
	if errors.Is(err, session.ErrInvalidSession) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to dismiss promotion"})
	}

	return c.NoContent(http.StatusNoContent)
}

// deviceFromRequest fills blank device fields from request headers.
func deviceFromRequest(c echo.Context, device models.DeviceInfo) models.DeviceInfo {
	r := c.Request()
	if device.UserAgent == "" {
		device.UserAgent = r.UserAgent()
	}
	if device.Referrer == "" {
		device.Referrer = r.Referer()
	}
	if device.Language == "" {
		device.Language = r.Header.Get("Accept-Language")
	}
	return device
}
