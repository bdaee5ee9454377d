package models

import (
	"encoding/json"
	"time"

	"goflare.io/display/models/enum"
)

const DefaultCarouselInterval = 5000 * time.Millisecond

// carouselInterval values outside [1ms, 24h] fall back to the default.
const (
	minCarouselIntervalMs = 1.0
	maxCarouselIntervalMs = float64(24 * time.Hour / time.Millisecond)
)

// DisplaySettings is the validated form of a promotion's display_settings
// column. Every recognized option has an explicit default; unknown keys and
// values of the wrong type are ignored.
type DisplaySettings struct {
	ShowAsBanner       bool `json:"showAsBanner"`
	ShowAsModal        bool `json:"showAsModal"`
	ShowAsNotification bool `json:"showAsNotification"`
	ShowAsCarousel     bool `json:"showAsCarousel"`

	BannerPosition      enum.BannerPosition      `json:"bannerPosition"`
	ModalTrigger        enum.ModalTrigger        `json:"modalTrigger"`
	NotificationTrigger enum.NotificationTrigger `json:"notificationTrigger"`
	CarouselPosition    enum.CarouselPosition    `json:"carouselPosition"`

	// CarouselInterval is serialized in milliseconds.
	CarouselInterval time.Duration `json:"-"`
}

// DefaultDisplaySettings returns the configuration used when a promotion has
// no settings or the stored settings cannot be parsed.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		BannerPosition:      enum.BannerPositionTop,
		ModalTrigger:        enum.ModalTriggerImmediate,
		NotificationTrigger: enum.NotificationTriggerImmediate,
		CarouselPosition:    enum.CarouselPositionBoth,
		CarouselInterval:    DefaultCarouselInterval,
	}
}

// ExplicitModes returns the modes flagged with showAs* options, in bucket order.
func (s DisplaySettings) ExplicitModes() []enum.DisplayMode {
	var modes []enum.DisplayMode
	if s.ShowAsBanner {
		modes = append(modes, enum.DisplayModeBanner)
	}
	if s.ShowAsModal {
		modes = append(modes, enum.DisplayModeModal)
	}
	if s.ShowAsNotification {
		modes = append(modes, enum.DisplayModeNotification)
	}
	if s.ShowAsCarousel {
		modes = append(modes, enum.DisplayModeCarousel)
	}
	return modes
}

// ParseDisplaySettings decodes raw JSON settings. Malformed documents yield
// the defaults; a malformed individual option falls back to its own default.
func ParseDisplaySettings(raw []byte) DisplaySettings {
	settings := DefaultDisplaySettings()
	if len(raw) == 0 {
		return settings
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return settings
	}

	decodeBool(fields, "showAsBanner", &settings.ShowAsBanner)
	decodeBool(fields, "showAsModal", &settings.ShowAsModal)
	decodeBool(fields, "showAsNotification", &settings.ShowAsNotification)
	decodeBool(fields, "showAsCarousel", &settings.ShowAsCarousel)

	switch v := enum.BannerPosition(decodeString(fields, "bannerPosition")); v {
	case enum.BannerPositionTop, enum.BannerPositionBottom:
		settings.BannerPosition = v
	}
	switch v := enum.ModalTrigger(decodeString(fields, "modalTrigger")); v {
	case enum.ModalTriggerImmediate, enum.ModalTriggerDelayed, enum.ModalTriggerExitIntent:
		settings.ModalTrigger = v
	}
	switch v := enum.NotificationTrigger(decodeString(fields, "notificationTrigger")); v {
	case enum.NotificationTriggerImmediate, enum.NotificationTriggerDelayed:
		settings.NotificationTrigger = v
	}
	switch v := enum.CarouselPosition(decodeString(fields, "carouselPosition")); v {
	case enum.CarouselPositionHomepage, enum.CarouselPositionPromotions, enum.CarouselPositionBoth:
		settings.CarouselPosition = v
	}

	if msg, ok := fields["carouselInterval"]; ok {
		var ms float64
		if err := json.Unmarshal(msg, &ms); err == nil && ms >= minCarouselIntervalMs && ms <= maxCarouselIntervalMs {
			settings.CarouselInterval = time.Duration(ms * float64(time.Millisecond))
		}
	}

	return settings
}

func decodeBool(fields map[string]json.RawMessage, key string, dst *bool) {
	msg, ok := fields[key]
	if !ok {
		return
	}
	var v bool
	if err := json.Unmarshal(msg, &v); err == nil {
		*dst = v
	}
}

func decodeString(fields map[string]json.RawMessage, key string) string {
	msg, ok := fields[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(msg, &v); err != nil {
		return ""
	}
	return v
}

type displaySettingsJSON struct {
	ShowAsBanner        bool                     `json:"showAsBanner"`
	ShowAsModal         bool                     `json:"showAsModal"`
	ShowAsNotification  bool                     `json:"showAsNotification"`
	ShowAsCarousel      bool                     `json:"showAsCarousel"`
	BannerPosition      enum.BannerPosition      `json:"bannerPosition"`
	ModalTrigger        enum.ModalTrigger        `json:"modalTrigger"`
	NotificationTrigger enum.NotificationTrigger `json:"notificationTrigger"`
	CarouselPosition    enum.CarouselPosition    `json:"carouselPosition"`
	CarouselInterval    int64                    `json:"carouselInterval"`
}

func (s DisplaySettings) MarshalJSON() ([]byte, error) {
	return json.Marshal(displaySettingsJSON{
		ShowAsBanner:        s.ShowAsBanner,
		ShowAsModal:         s.ShowAsModal,
		ShowAsNotification:  s.ShowAsNotification,
		ShowAsCarousel:      s.ShowAsCarousel,
		BannerPosition:      s.BannerPosition,
		ModalTrigger:        s.ModalTrigger,
		NotificationTrigger: s.NotificationTrigger,
		CarouselPosition:    s.CarouselPosition,
		CarouselInterval:    s.CarouselInterval.Milliseconds(),
	})
}

func (s *DisplaySettings) UnmarshalJSON(data []byte) error {
	*s = ParseDisplaySettings(data)
	return nil
}
