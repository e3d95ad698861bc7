package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/evcraddock/comment-board/internal/comment"
)

// AMQPPublisher publishes CommentCreated events to a durable queue on the
// default exchange. The connection is opened lazily and reopened after it
// drops.
type AMQPPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher creates a publisher for url and queue. No connection is
// made until the first event.
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue}
}

// CommentCreated implements Publisher. Messages are persistent JSON.
func (p *AMQPPublisher) CommentCreated(ctx context.Context, c *comment.Comment) error {
	body, err := json.Marshal(NewCommentCreated(c))
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         "comment.created",
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.reset()
		return fmt.Errorf("publishing to %s: %w", p.queue, err)
	}
	return nil
}

// channel returns an open channel, dialing and declaring the queue if
// needed. Callers hold p.mu.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial: amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("dialing broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("opening channel: %w", err), conn.Close())
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return nil, errors.Join(fmt.Errorf("declaring queue %s: %w", p.queue, err), conn.Close())
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

// reset drops the current connection. Callers hold p.mu.
func (p *AMQPPublisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

// Close closes the broker connection, if any.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn, p.ch = nil, nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("closing broker connection: %w", err)
	}
	return nil
}

// New returns an AMQP publisher when url is set, otherwise Nop.
func New(url, queue string) Publisher {
	if url == "" {
		return Nop{}
	}
	return NewAMQPPublisher(url, queue)
}
