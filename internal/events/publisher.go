// Package events publishes storefront order events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/karinashop/storefront/internal/storage"
)

const publishTimeout = 5 * time.Second

// OrderLine is one snapshotted line of a published order.
type OrderLine struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
}

// OrderPlaced is the message body broadcast after an order is placed.
type OrderPlaced struct {
	OrderID   int64       `json:"order_id"`
	UserID    int64       `json:"user_id"`
	Status    string      `json:"status"`
	Total     int64       `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderLine `json:"items"`
}

// channel is the slice of amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher broadcasts placed orders to a broker queue.
type Publisher struct {
	conn        *amqp.Connection
	queue       string
	openChannel func() (channel, error)
}

// Dial connects to the broker and declares the order queue.
func Dial(url, queue string) (*Publisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("broker url is required")
	}
	queue = strings.TrimSpace(queue)
	if queue == "" {
		return nil, fmt.Errorf("queue name is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	_ = ch.Close()

	publisher := &Publisher{conn: conn, queue: queue}
	publisher.openChannel = func() (channel, error) {
		return conn.Channel()
	}
	return publisher, nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// PublishOrderPlaced broadcasts an order snapshot as persistent JSON.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, order storage.Order) error {
	if p == nil {
		return fmt.Errorf("publisher is not configured")
	}

	body, err := json.Marshal(newOrderPlaced(order))
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	ch, err := p.openChannel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() {
		_ = ch.Close()
	}()

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := ch.PublishWithContext(publishCtx,
		"",      // default exchange
		p.queue, // routing key
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish order %d: %w", order.ID, err)
	}
	return nil
}

func newOrderPlaced(order storage.Order) OrderPlaced {
	message := OrderPlaced{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
	for _, line := range order.Items {
		message.Items = append(message.Items, OrderLine{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Category: line.Category,
			Price:    line.Price,
		})
		message.Total += line.Price
	}
	return message
}
