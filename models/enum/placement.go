package enum

type BannerPosition string

const (
	BannerPositionTop    BannerPosition = "top"
	BannerPositionBottom BannerPosition = "bottom"
)

type ModalTrigger string

const (
	ModalTriggerImmediate  ModalTrigger = "immediate"
	ModalTriggerDelayed    ModalTrigger = "delayed"
	ModalTriggerExitIntent ModalTrigger = "exit_intent"
)

type NotificationTrigger string

const (
	NotificationTriggerImmediate NotificationTrigger = "immediate"
	NotificationTriggerDelayed   NotificationTrigger = "delayed"
)

// CarouselPosition restricts which pages receive a carousel promotion.
type CarouselPosition string

const (
	CarouselPositionHomepage   CarouselPosition = "homepage"
	CarouselPositionPromotions CarouselPosition = "promotions"
	CarouselPositionBoth       CarouselPosition = "both"
)

// Accepts reports whether a promotion positioned at p may be shown on the
// given page. An empty page accepts every position and an empty position is
// treated as both.
func (p CarouselPosition) Accepts(page CarouselPosition) bool {
	if page == "" || page == CarouselPositionBoth || p == "" || p == CarouselPositionBoth {
		return true
	}
	return p == page
}
