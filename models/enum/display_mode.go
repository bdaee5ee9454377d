package enum

type DisplayMode string

const (
	DisplayModeBanner       DisplayMode = "banner"
	DisplayModeModal        DisplayMode = "modal"
	DisplayModeNotification DisplayMode = "notification"
	DisplayModeCarousel     DisplayMode = "carousel"
)

// DisplayModes lists every mode in bucket order.
var DisplayModes = []DisplayMode{
	DisplayModeBanner,
	DisplayModeModal,
	DisplayModeNotification,
	DisplayModeCarousel,
}

func (m DisplayMode) IsValid() bool {
	switch m {
	case DisplayModeBanner, DisplayModeModal, DisplayModeNotification, DisplayModeCarousel:
		return true
	}
	return false
}
