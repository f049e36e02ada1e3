package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// TelegramConfig configures the optional run-report notifier. When Enabled
// is false the token and chat ID may stay empty.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat_id"`
}

func (config TelegramConfig) validate() error {

	if !config.Enabled {
		return nil
	}

	var missing []error
	if config.Token == "" {
		missing = append(missing, fmt.Errorf("missing variable: token"))
	}
	if config.ChatID == 0 {
		missing = append(missing, fmt.Errorf("missing variable: chat_id"))
	}

	if len(missing) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(missing...))
	}

	return nil
}

func (config TelegramConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("telegram.token", "TELEGRAM_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
