package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	QueueTypeRabbitMq = "rabbitmq"
	QueueTypeSqs      = "sqs"
)

// QueueConfig configures the publisher of job events. Type defaults to
// rabbitmq; for sqs, Url is the queue url and credentials come from the AWS
// environment.
type QueueConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	Type               string        `mapstructure:"type"`
	Region             string        `mapstructure:"region"`
	Url                string        `mapstructure:"url"`
	QueueUser          string        `mapstructure:"user"`
	QueuePassword      string        `mapstructure:"password"`
	JobEventsQueueName string        `mapstructure:"job-events-queue-name"`
	PublishTimeout     time.Duration `mapstructure:"publish-timeout"`
}

func (cfg *QueueConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Url == "" {
		return fmt.Errorf("missing queue url")
	}

	switch cfg.Type {
	case "", QueueTypeRabbitMq:
		if cfg.QueueUser == "" || cfg.QueuePassword == "" {
			return fmt.Errorf("missing queue credentials")
		}
	case QueueTypeSqs:
		if cfg.Region == "" {
			return fmt.Errorf("missing sqs region")
		}
		if u, err := url.Parse(cfg.Url); err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("sqs queue url must be an https url: %s", cfg.Url)
		}
	default:
		return fmt.Errorf("unsupported queue type: %q", cfg.Type)
	}

	if cfg.JobEventsQueueName == "" {
		return fmt.Errorf("missing job events queue name")
	}

	if cfg.PublishTimeout <= 0 {
		return fmt.Errorf("publish timeout must be positive")
	}
	return nil
}

func (cfg *QueueConfig) IsSqs() bool {
	return cfg.Type == QueueTypeSqs
}
