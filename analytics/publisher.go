package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"goflare.io/display/models"
)

// Publisher fans analytics events out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event *models.AnalyticsEvent) error
}

// NATSConn is satisfied by *nats.Conn.
type NATSConn interface {
	Publish(subject string, data []byte) error
}

type NATSPublisher struct {
	conn NATSConn
}

func NewNATSPublisher(conn NATSConn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func Subject(event *models.AnalyticsEvent) string {
	return fmt.Sprintf("promotion.analytics.%s", event.EventType)
}

func (p *NATSPublisher) Publish(_ context.Context, event *models.AnalyticsEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.conn.Publish(Subject(event), data)
}
