package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetPaymentQueues возвращает очереди платёжных событий.
func GetPaymentQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "payment.created", RoutingKey: "created"},
	}
}
