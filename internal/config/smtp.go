package config

import "time"

type SMTPConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	FromEmail  string        `yaml:"from_email"`
	FromName   string        `yaml:"from_name"`
	SSL        bool          `yaml:"ssl"`
	TLS        bool          `yaml:"tls"`
	AuthMethod string        `yaml:"auth_method"`
	Timeout    time.Duration `yaml:"timeout"`
}

func loadSMTPConfig() *SMTPConfig {
	username := getEnv("SMTP_USERNAME", getEnv("EMAIL_USERNAME", ""))
	return &SMTPConfig{
		Enabled:    getEnvAsBool("SMTP_ENABLED", username != ""),
		Host:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:       getEnvAsInt("SMTP_PORT", 587),
		Username:   username,
		Password:   getEnv("SMTP_PASSWORD", getEnv("EMAIL_PASSWORD", "")),
		FromEmail:  getEnv("SMTP_FROM_EMAIL", username),
		FromName:   getEnv("SMTP_FROM_NAME", "No-Reply"),
		SSL:        getEnvAsBool("SMTP_SSL", false),
		TLS:        getEnvAsBool("SMTP_TLS", true),
		AuthMethod: getEnv("SMTP_AUTH_METHOD", "plain"),
		Timeout:    getEnvAsDuration("SMTP_TIMEOUT", 15*time.Second),
	}
}
