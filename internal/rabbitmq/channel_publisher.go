package rabbitmq

import "github.com/streadway/amqp"

// ChannelPublisher публикует сообщения через открытый канал AMQP.
// Реализует интерфейс брокера для сервисов.
type ChannelPublisher struct {
	ch *amqp.Channel
}

// NewChannelPublisher создает издателя поверх канала.
func NewChannelPublisher(ch *amqp.Channel) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish сериализует сообщение в JSON и публикует его в обменник.
func (p *ChannelPublisher) Publish(exchange, routingKey string, message any) error {
	return PublishMessage(p.ch, exchange, routingKey, message)
}
