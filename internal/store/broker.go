package store

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/codebyom2309/Zenith-cafe-os/internal/connections/rabbitmq"
	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

// OrdersExchange is the fanout exchange store events are published to.
const OrdersExchange = "orders_fanout"

// BrokerPublisher pushes store events into the fanout exchange so every
// connected dashboard refreshes without polling.
type BrokerPublisher struct {
	client *rabbitmq.Client
}

func NewBrokerPublisher(client *rabbitmq.Client) (*BrokerPublisher, error) {
	if err := client.Channel().ExchangeDeclare(OrdersExchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", OrdersExchange, err)
	}
	return &BrokerPublisher{client: client}, nil
}

func (p *BrokerPublisher) Publish(ctx context.Context, ev domain.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.client.Publish(ctx, OrdersExchange, "", body)
}

// BrokerFeed is the push-based Feed: an exclusive queue bound to the
// fanout exchange, one tick per delivered event.
type BrokerFeed struct {
	client *rabbitmq.Client
	log    *zap.Logger
}

func NewBrokerFeed(client *rabbitmq.Client, log *zap.Logger) *BrokerFeed {
	if log == nil {
		log = zap.NewNop()
	}
	return &BrokerFeed{client: client, log: log}
}

func (f *BrokerFeed) Changes(ctx context.Context) (<-chan struct{}, error) {
	ch := f.client.Channel()
	if err := ch.ExchangeDeclare(OrdersExchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", OrdersExchange, err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare feed queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", OrdersExchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind feed queue: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume feed queue: %w", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					f.log.Warn("feed_channel_closed")
					return
				}
				f.logEvent(d)
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

func (f *BrokerFeed) logEvent(d amqp.Delivery) {
	var ev domain.Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		f.log.Debug("feed_event_unparsed", zap.Error(err))
		return
	}
	f.log.Debug("feed_event",
		zap.String("kind", ev.Kind),
		zap.String("order_id", ev.OrderID),
		zap.String("status", ev.Status.String()),
	)
}
