package domain

import "time"

const (
	EventOrderCreated  = "order_created"
	EventStatusChanged = "status_changed"
)

// Event announces a change to the order store so dashboards can re-read
// it. Consumers always refresh from the store rather than trusting the
// payload.
type Event struct {
	Kind    string    `json:"kind"`
	OrderID string    `json:"order_id"`
	Status  Status    `json:"status"`
	At      time.Time `json:"at"`
}
