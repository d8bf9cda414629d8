package payment

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/purchase-service/internal/lib/rabbitmq"
)

// AMQPPublisher публикует события платежей в обменник RabbitMQ.
type AMQPPublisher struct {
	ch *amqp.Channel
}

// NewAMQPPublisher создает новый экземпляр AMQPPublisher.
func NewAMQPPublisher(ch *amqp.Channel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch}
}

// Publish отправляет сообщение с указанным ключом маршрутизации.
func (p *AMQPPublisher) Publish(routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.ch, rabbitmq.Exchange, routingKey, message)
}
