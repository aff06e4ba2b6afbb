package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// ErrBadMessage означает, что сообщение не подлежит обработке в принципе
// (например, не разбирается как JSON). Такое сообщение отбрасывается
// без возврата в очередь: повторная доставка ничего не изменит.
var ErrBadMessage = errors.New("bad message")

// ConsumerMessage создает потребителя сообщений из очереди RabbitMQ.
// Обработка идёт с ограничением limit одновременных сообщений; при
// временной ошибке обработчика сообщение возвращается в очередь,
// при ErrBadMessage — отбрасывается.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, limit int, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, limit)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(delivery.Body); err != nil {
						requeue := !errors.Is(err, ErrBadMessage)
						if nackErr := delivery.Nack(false, requeue); nackErr != nil {
							log.Printf("failed to nack message: %v", nackErr)
						}
						return
					}
					if ackErr := delivery.Ack(false); ackErr != nil {
						log.Printf("failed to ack message: %v", ackErr)
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
