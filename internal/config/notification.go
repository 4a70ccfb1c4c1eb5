package config

import "time"

type NotificationConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	EmailEnabled bool          `yaml:"email_enabled"`
	SMSEnabled   bool          `yaml:"sms_enabled"`
}

func loadNotificationConfig() *NotificationConfig {
	return &NotificationConfig{
		Timeout:      getEnvAsDuration("NOTIFICATION_TIMEOUT", 30*time.Second),
		EmailEnabled: getEnvAsBool("NOTIFY_EMAIL", true),
		SMSEnabled:   getEnvAsBool("NOTIFY_SMS", false),
	}
}
