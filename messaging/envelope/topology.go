package envelope

import (
	"fmt"

	"github.com/ncobase/ncrud/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// BindAMQP declares a durable topic exchange and queue, binds the queue for
// each routing pattern and starts consuming. AMQP topic patterns use '*' for
// one dot-separated word and '#' for any number of words.
func BindAMQP(ch *amqp.Channel, cfg *config.RabbitMQ, patterns ...string) (<-chan amqp.Delivery, error) {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("rabbitmq: declare exchange %s: %w", cfg.Exchange, err)
	}
	q, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: declare queue %s: %w", cfg.Queue, err)
	}
	if len(patterns) == 0 {
		patterns = []string{"#"}
	}
	for _, p := range patterns {
		if err := ch.QueueBind(q.Name, p, cfg.Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("rabbitmq: bind %s to %s: %w", p, q.Name, err)
		}
	}
	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: consume %s: %w", q.Name, err)
	}
	return deliveries, nil
}
