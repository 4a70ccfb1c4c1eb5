package config

import (
	"fmt"
	"time"
)

type BrokerConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	User       string        `yaml:"user"`
	Password   string        `yaml:"password"`
	VHost      string        `yaml:"vhost"`
	Exchange   string        `yaml:"exchange"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

func (b *BrokerConfig) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", b.User, b.Password, b.Host, b.Port, b.VHost)
}

func loadBrokerConfig() *BrokerConfig {
	return &BrokerConfig{
		Enabled:    getEnvAsBool("RABBITMQ_ENABLED", false),
		Host:       getEnv("RABBITMQ_HOST", "localhost"),
		Port:       getEnvAsInt("RABBITMQ_PORT", 5672),
		User:       getEnv("RABBITMQ_USER", "guest"),
		Password:   getEnv("RABBITMQ_PASSWORD", "guest"),
		VHost:      getEnv("RABBITMQ_VHOST", ""),
		Exchange:   getEnv("RABBITMQ_EXCHANGE", "booking_topic"),
		MaxRetries: getEnvAsInt("RABBITMQ_MAX_RETRIES", 5),
		RetryDelay: getEnvAsDuration("RABBITMQ_RETRY_DELAY", time.Second),
	}
}
