package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const seatChangedQueueName = "seat.changed"

// SeatChangedConsumer receives seat transition events from the broker
// and hands them to a delivery function (the in-process bridge plus
// cache invalidation, wired in main).  The consumer never interprets
// the payload beyond unmarshalling it.
type SeatChangedConsumer struct {
	URL     string
	Deliver func(SeatChangedEvent)
}

// Start connects to RabbitMQ, declares the seat.changed queue (durable),
// and starts consuming messages. It runs a reconnect loop with capped
// backoff and keeps running indefinitely, logging any processing errors
// while rejecting the offending message so the server continues
// operating.
func (c *SeatChangedConsumer) Start() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("seat-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := c.consumeLoop(conn); err != nil {
			log.Printf("seat-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func (c *SeatChangedConsumer) consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("seat-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(seatChangedQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(seatChangedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.handleMessage(d.Body); err != nil {
			log.Printf("seat-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *SeatChangedConsumer) handleMessage(body []byte) error {
	var ev SeatChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if c.Deliver != nil {
		c.Deliver(ev)
	}
	return nil
}
