package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type SiteConfig struct {
	Name      string `mapstructure:"name" validate:"required,oneof=microsoft meta"`
	SearchURL string `mapstructure:"search_url" validate:"required,url"`
	MaxPages  int    `mapstructure:"max_pages" validate:"gt=0"`
}

type ScraperConfig struct {
	OutputRoot      string                         `mapstructure:"output_root" validate:"required"`
	RetentionDays   int                            `mapstructure:"retention_days" validate:"gt=0"`
	MaxRetries      int                            `mapstructure:"max_retries" validate:"gt=0"`
	RestartEvery    int                            `mapstructure:"restart_every" validate:"gt=0"`
	CheckpointEvery int                            `mapstructure:"checkpoint_every" validate:"gt=0"`
	PageInterval    time.Duration                  `mapstructure:"page_interval"`
	JobDelayMin     time.Duration                  `mapstructure:"job_delay_min"`
	JobDelayMax     time.Duration                  `mapstructure:"job_delay_max"`
	Headless        bool                           `mapstructure:"headless"`
	IncludeBucket   string                         `mapstructure:"include_bucket"`
	ExcludeBuckets  []string                       `mapstructure:"exclude_buckets"`
	Sites           []SiteConfig                   `mapstructure:"sites" validate:"required,min=1,dive"`
	Rules           map[string]map[string][]string `mapstructure:"rules"`
}

func (config *ScraperConfig) applyDefaults() {
	if config.RetentionDays == 0 {
		config.RetentionDays = 10
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	if config.RestartEvery == 0 {
		config.RestartEvery = 10
	}
	if config.CheckpointEvery == 0 {
		config.CheckpointEvery = 5
	}
	if config.PageInterval == 0 {
		config.PageInterval = 1200 * time.Millisecond
	}
	if config.JobDelayMin == 0 {
		config.JobDelayMin = 2 * time.Second
	}
	if config.JobDelayMax == 0 {
		config.JobDelayMax = 5 * time.Second
	}
	for i := range config.Sites {
		if config.Sites[i].MaxPages == 0 {
			config.Sites[i].MaxPages = 10
		}
	}
}

func (config ScraperConfig) validate() error {

	if err := validator.New().Struct(config); err != nil {
		return err
	}

	if config.JobDelayMax < config.JobDelayMin {
		return fmt.Errorf("job_delay_max must not be less than job_delay_min")
	}

	if config.IncludeBucket != "" {
		if _, ok := config.Rules[config.IncludeBucket]; !ok {
			return fmt.Errorf("include_bucket %q is not a rule class", config.IncludeBucket)
		}
		for _, class := range config.ExcludeBuckets {
			if _, ok := config.Rules[class]; !ok {
				return fmt.Errorf("exclude bucket %q is not a rule class", class)
			}
		}
	}

	return nil
}

func (config ScraperConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("scraper.output_root", "OUTPUT_ROOT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scraper.headless", "HEADLESS"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
