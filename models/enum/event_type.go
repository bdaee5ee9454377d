package enum

type EventType string

const (
	EventTypeView       EventType = "view"
	EventTypeClick      EventType = "click"
	EventTypeDismiss    EventType = "dismiss"
	EventTypeConversion EventType = "conversion"
	EventTypeUse        EventType = "use"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventTypeView, EventTypeClick, EventTypeDismiss, EventTypeConversion, EventTypeUse:
		return true
	}
	return false
}

// Counter returns the aggregate column on the promotion record that the
// event type increments. Dismissals have no counter.
func (t EventType) Counter() (string, bool) {
	switch t {
	case EventTypeView:
		return "total_views", true
	case EventTypeClick:
		return "total_clicks", true
	case EventTypeConversion:
		return "total_conversions", true
	case EventTypeUse:
		return "total_uses", true
	}
	return "", false
}
