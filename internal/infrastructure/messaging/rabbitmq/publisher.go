package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

const (
	DefaultExchange   = "pmwatch"
	DefaultRoutingKey = "pmwatch.activity"
	appID             = "pmwatch"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends each reported activity to a durable topic exchange,
// routed by <routing key>.<lowercased wallet>.
type Publisher struct {
	conn       *amqp.Connection
	ch         channel
	exchange   string
	routingKey string
	runID      string
}

// Dial connects, opens a channel and declares the exchange.
func Dial(url, exchange, routingKey string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: open channel: %w", err)
	}

	p := newPublisher(ch, exchange, routingKey)
	p.conn = conn
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("amqp: declare exchange %s: %w", p.exchange, err)
	}
	return p, nil
}

func newPublisher(ch channel, exchange, routingKey string) *Publisher {
	if strings.TrimSpace(exchange) == "" {
		exchange = DefaultExchange
	}
	if strings.TrimSpace(routingKey) == "" {
		routingKey = DefaultRoutingKey
	}
	return &Publisher{ch: ch, exchange: exchange, routingKey: routingKey}
}

func (p *Publisher) WithRunID(id string) *Publisher {
	p.runID = id
	return p
}

func (p *Publisher) Exchange() string { return p.exchange }

func (p *Publisher) RoutingKey(wallet string) string {
	return p.routingKey + "." + strings.ToLower(wallet)
}

func (p *Publisher) Publish(ctx context.Context, wallet string, activities []model.Activity) error {
	key := p.RoutingKey(wallet)
	for i := range activities {
		ev := model.NewActivityEvent(p.runID, wallet, &activities[i])
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("amqp: encode activity %s: %w", ev.TxHash, err)
		}
		msg := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.TxHash,
			Timestamp:    time.Unix(ev.Timestamp, 0).UTC(),
			Type:         ev.Type,
			AppId:        appID,
			Body:         body,
		}
		if err := p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
			return fmt.Errorf("amqp: publish activity %s: %w", ev.TxHash, err)
		}
	}
	return nil
}

func (p *Publisher) Close() error {
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if e := p.conn.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

var _ port.ActivityPublisher = (*Publisher)(nil)
