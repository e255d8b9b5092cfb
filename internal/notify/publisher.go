// Package notify publishes medication reminder notifications to RabbitMQ
// for delivery by the push gateway.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// ReminderNotification is the payload pushed for one due reminder slot.
type ReminderNotification struct {
	UserID         string `json:"user_id"`
	MedicationID   string `json:"medication_id"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Time           string `json:"time"`
	SlotIndex      int    `json:"slot_index"`
	Title          string `json:"title"`
	Body           string `json:"body"`
}

// Publisher wraps an AMQP channel bound to the reminder queue.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewPublisher connects to RabbitMQ and declares the reminder queue.
func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &Publisher{conn: conn, channel: channel, queue: queue}, nil
}

// Publish sends one notification to the queue as persistent JSON.
func (p *Publisher) Publish(notification ReminderNotification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = p.channel.Publish(
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NotificationPublisher abstracts publishing for testing.
type NotificationPublisher interface {
	Publish(notification ReminderNotification) error
}

var _ NotificationPublisher = (*Publisher)(nil)
