package models

import (
	"time"

	"github.com/google/uuid"

	"goflare.io/display/models/enum"
)

// DeviceInfo is the client metadata attached to an analytics event.
type DeviceInfo struct {
	UserAgent  string `json:"user_agent,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	Browser    string `json:"browser,omitempty"`
	Platform   string `json:"platform,omitempty"`
	Language   string `json:"language,omitempty"`
	PageURL    string `json:"page_url,omitempty"`
	Referrer   string `json:"referrer,omitempty"`
}

// AnalyticsEvent is an append-only record of an interaction with a promotion.
type AnalyticsEvent struct {
	ID          uuid.UUID      `json:"id"`
	PromotionID string         `json:"promotion_id"`
	EventType   enum.EventType `json:"event_type"`
	SessionID   string         `json:"session_id"`
	CustomerID  string         `json:"customer_id,omitempty"`
	BranchID    string         `json:"branch_id,omitempty"`
	EventData   map[string]any `json:"event_data,omitempty"`
	Device      DeviceInfo     `json:"device"`
	CreatedAt   time.Time      `json:"created_at"`
}
