package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaymentQueues(t *testing.T) {
	queues := GetPaymentQueues()

	require.NotEmpty(t, queues, "queues list should not be empty")

	// Проверка первой очереди
	first := queues[0]
	assert.Equal(t, "payment.created", first.QueueName)
	assert.Equal(t, "created", first.RoutingKey)

	// Проверка уникальности QueueName
	seen := map[string]bool{}
	for _, q := range queues {
		assert.Falsef(t, seen[q.QueueName], "duplicate queue name: %s", q.QueueName)
		seen[q.QueueName] = true
	}
}
