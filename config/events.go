package config

import (
	"fmt"
	"time"
)

// EventsConfig defines configuration for the Kafka provenance event publisher
type EventsConfig struct {
	Brokers []string `yaml:"brokers"` // e.g., ["kafka1:9092", "kafka2:9092"]
	Topic   string   `yaml:"topic"`   // Topic confirmed lifecycle events are published to

	// Reliability settings
	RequiredAcks string `yaml:"required_acks"` // none/one/all
	Async        bool   `yaml:"async"`

	// Performance settings
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
}

// SetDefaults sets reasonable default values for the event publisher configuration
func (c *EventsConfig) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "aeropart.lifecycle"
		fmt.Printf("Warning: events.topic not set, defaulting to %s\n", c.Topic)
	}
	if c.RequiredAcks == "" {
		c.RequiredAcks = "one"
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 5 * time.Second
	}
}
