package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"goflare.io/display"
	"goflare.io/display/analytics"
	"goflare.io/display/models"
	"goflare.io/display/models/enum"
)

type AnalyticsHandler interface {
	TrackEvent(c echo.Context) error
	TrackUsage(c echo.Context) error
}

type analyticsHandler struct {
	Display display.Display
}

func NewAnalyticsHandler(
	Display display.Display,
) AnalyticsHandler {
	return &analyticsHandler{
		Display: Display,
	}
}

type eventRequest struct {
	EventType  enum.EventType    `json:"event_type"`
	SessionID  string            `json:"session_id"`
	CustomerID string            `json:"customer_id"`
	BranchID   string            `json:"branch_id"`
	EventData  map[string]any    `json:"event_data"`
	Device     models.DeviceInfo `json:"device"`
}

type usageRequest struct {
	SessionID       string           `json:"session_id"`
	OrderID         string           `json:"order_id"`
	CustomerID      string           `json:"customer_id"`
	BranchID        string           `json:"branch_id"`
	DiscountApplied *decimal.Decimal `json:"discount_applied"`
	OriginalAmount  *decimal.Decimal `json:"original_amount"`
	FinalAmount     *decimal.Decimal `json:"final_amount"`
}

// TrackEvent handles POST /promotions/:id/events
func (ah *analyticsHandler) TrackEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if !req.EventType.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid event type"})
	}

	ah.Display.Track(c.Request().Context(), models.AnalyticsEvent{
		PromotionID: c.Param("id"),
		EventType:   req.EventType,
		SessionID:   req.SessionID,
		CustomerID:  req.CustomerID,
		BranchID:    req.BranchID,
		EventData:   req.EventData,
		Device:      deviceFromRequest(c, req.Device),
	})

	return c.NoContent(http.StatusAccepted)
}

// TrackUsage handles POST /promotions/:id/usage
func (ah *analyticsHandler) TrackUsage(c echo.Context) error {
	var req usageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	usage, err := ah.Display.TrackUsage(c.Request().Context(), req.SessionID, models.PromotionUsage{
		PromotionID:     c.Param("id"),
		OrderID:         req.OrderID,
		CustomerID:      req.CustomerID,
		BranchID:        req.BranchID,
		DiscountApplied: req.DiscountApplied,
		OriginalAmount:  req.OriginalAmount,
		FinalAmount:     req.FinalAmount,
	})
	if errors.Is(err, analytics.ErrInvalidEvent) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "order_id is required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to record promotion usage"})
	}

	return c.JSON(http.StatusCreated, usage)
}
