package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"housecup/utils"

	"github.com/segmentio/kafka-go"
)

func CreateTopic(c *Config) error {
	if c.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER environment variable not set")
	}
	conn, err := kafka.Dial("tcp", c.KafkaBroker)
	if err != nil {
		return err
	}
	defer utils.Closer(conn)()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer utils.Closer(controllerConn)()

	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             c.KafkaTopic,
		NumPartitions:     3,
		ReplicationFactor: 1,
		ConfigEntries: []kafka.ConfigEntry{
			// change events are hints, a day is plenty
			{ConfigName: "retention.ms", ConfigValue: "86400000"},
		},
	})
	if errors.Is(err, kafka.TopicAlreadyExists) {
		return nil
	}
	return err
}

// GetWriter keys messages by sector so one sector's events stay ordered.
func GetWriter(c *Config) (*kafka.Writer, error) {
	if c.KafkaBroker == "" {
		return nil, fmt.Errorf("KAFKA_BROKER environment variable not set")
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.KafkaBroker),
		Topic:                  c.KafkaTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}, nil
}

// GetReader joins a consumer group per instance so every instance sees every
// event.
func GetReader(c *Config, instanceId string) (*kafka.Reader, error) {
	if c.KafkaBroker == "" {
		return nil, fmt.Errorf("KAFKA_BROKER environment variable not set")
	}
	if err := CreateTopic(c); err != nil {
		return nil, err
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{c.KafkaBroker},
		Topic:       c.KafkaTopic,
		GroupID:     fmt.Sprintf("%s-%s", c.KafkaTopic, instanceId),
		StartOffset: kafka.LastOffset,
	}), nil
}
