package kafka

import (
	"Booklet/internal/api/config"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

// Subscription 一个 topic 与其处理器
type Subscription struct {
	Name    string
	Topic   config.KafkaTopicConsumer
	Handler sarama.ConsumerGroupHandler
}

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理服务内所有 Kafka 消费者
type ConsumerManager struct {
	consumers []*consumer
}

// NewConsumerManager 构造函数，topic 为空的订阅会被跳过
func NewConsumerManager(kafkaCfg config.KafkaConfig, subs ...Subscription) (*ConsumerManager, error) {
	saramaCfg, err := newSaramaConfig(kafkaCfg)
	if err != nil {
		return nil, err
	}

	m := &ConsumerManager{}
	for _, sub := range subs {
		if sub.Topic.Topic == "" {
			log.Warn("kafka subscription without topic, skipped", "name", sub.Name)
			continue
		}
		group, err := sarama.NewConsumerGroup(kafkaCfg.Brokers, sub.Topic.GroupID, saramaCfg)
		if err != nil {
			m.close()
			return nil, err
		}
		m.consumers = append(m.consumers, &consumer{
			name:    sub.Name,
			topic:   sub.Topic.Topic,
			group:   group,
			handler: sub.Handler,
		})
	}
	return m, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, c := range m.consumers {
		wg.Add(1)
		go func(c *consumer) {
			defer wg.Done()
			log.Info("Kafka consumer started", "name", c.name, "topic", c.topic)
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
					log.Error("Error from consumer", "name", c.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	wg.Wait()
	m.close()
	return nil
}

func (m *ConsumerManager) close() {
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "name", c.name, "err", err)
		}
	}
}
