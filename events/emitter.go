// Package events fans order activity out to the admin live feed. Producers
// publish on a redis channel; the websocket handler relays to connected
// admins. Emission is fire-and-forget: a dead redis never blocks checkout.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"souq/models"
	"souq/rdx"
)

const orderChannel = "order-events"

// EmitOrder publishes an order event. Failures are logged and dropped.
func EmitOrder(eventType string, order *models.Order) {
	ev := models.OrderEvent{
		Type:        eventType,
		OrderID:     order.OrderID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		At:          time.Now(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("events: marshal order event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdx.Conn.Publish(ctx, orderChannel, data).Err(); err != nil {
		log.Printf("events: publish order event: %v", err)
	}
}
