package config

import (
	"errors"
	"time"
)

type PipelineConfig struct {
	// MaxSubmitAttempts INCLUDES the first submission.
	MaxSubmitAttempts int           `mapstructure:"max-submit-attempts"`
	InitialBackoff    time.Duration `mapstructure:"initial-backoff"`
	BackoffFactor     float64       `mapstructure:"backoff-factor"`
	MaxReceiptPolls   int           `mapstructure:"max-receipt-polls"`
	PollInterval      time.Duration `mapstructure:"poll-interval"`
	ReceiptTimeout    time.Duration `mapstructure:"receipt-timeout"`
	// GasLimitMargin is the percentage added on top of the gas estimate.
	GasLimitMargin uint64 `mapstructure:"gas-limit-margin"`
	// FeeBump is the percentage the single repair rebuild raises fees by.
	FeeBump      uint64        `mapstructure:"fee-bump"`
	JobRetention time.Duration `mapstructure:"job-retention"`
}

func (cfg *PipelineConfig) Validate() error {
	if cfg.MaxSubmitAttempts <= 0 {
		return errors.New("max-submit-attempts must be positive")
	}

	if cfg.InitialBackoff <= 0 {
		return errors.New("initial-backoff must be positive")
	}

	if cfg.BackoffFactor < 1 {
		return errors.New("backoff-factor cannot be smaller than 1")
	}

	if cfg.MaxReceiptPolls <= 0 {
		return errors.New("max-receipt-polls must be positive")
	}

	if cfg.PollInterval <= 0 {
		return errors.New("poll-interval must be positive")
	}

	if cfg.ReceiptTimeout <= 0 {
		return errors.New("receipt-timeout must be positive")
	}

	if cfg.GasLimitMargin > 100 {
		return errors.New("gas-limit-margin cannot exceed 100 percent")
	}

	if cfg.FeeBump > 100 {
		return errors.New("fee-bump cannot exceed 100 percent")
	}

	if cfg.JobRetention <= 0 {
		return errors.New("job-retention must be positive")
	}

	return nil
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxSubmitAttempts: 4,
		InitialBackoff:    500 * time.Millisecond,
		BackoffFactor:     2,
		MaxReceiptPolls:   30,
		PollInterval:      2 * time.Second,
		ReceiptTimeout:    5 * time.Second,
		GasLimitMargin:    20,
		FeeBump:           10,
		JobRetention:      30 * time.Minute,
	}
}
