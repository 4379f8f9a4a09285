package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Pipedrive PipedriveConfig `yaml:"pipedrive" mapstructure:"pipedrive"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// PipedriveConfig holds the Pipedrive API credentials and tuning knobs.
type PipedriveConfig struct {
	BaseURL         string       `yaml:"base_url" mapstructure:"base_url"`
	APIToken        string       `yaml:"api_token" mapstructure:"api_token"`
	TimeoutSecs     int          `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimitPerSec float64      `yaml:"rate_limit_per_sec" mapstructure:"rate_limit_per_sec"`
	Fields          FieldsConfig `yaml:"fields" mapstructure:"fields"`
}

// FieldsConfig overrides the custom field API keys. Empty entries fall back
// to the production defaults baked into the pipeline.
type FieldsConfig struct {
	ContactType  string `yaml:"contact_type" mapstructure:"contact_type"`
	HousingType  string `yaml:"housing_type" mapstructure:"housing_type"`
	PropertySize string `yaml:"property_size" mapstructure:"property_size"`
	DealType     string `yaml:"deal_type" mapstructure:"deal_type"`
	Comment      string `yaml:"comment" mapstructure:"comment"`
}

// Validate checks that the settings required for talking to Pipedrive are
// present. Commands that never touch the API skip this.
func (c PipedriveConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return eris.New("config: pipedrive.base_url is required (LEADSYNC_PIPEDRIVE_BASE_URL)")
	}
	if strings.TrimSpace(c.APIToken) == "" {
		return eris.New("config: pipedrive.api_token is required (LEADSYNC_PIPEDRIVE_API_TOKEN)")
	}
	return nil
}

// StoreConfig configures the submission journal.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	EventFile string `yaml:"event_file" mapstructure:"event_file"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential keys default to empty so AutomaticEnv can bind
	// them during Unmarshal.
	v.SetDefault("pipedrive.base_url", "")
	v.SetDefault("pipedrive.api_token", "")
	v.SetDefault("pipedrive.fields.contact_type", "")
	v.SetDefault("pipedrive.fields.housing_type", "")
	v.SetDefault("pipedrive.fields.property_size", "")
	v.SetDefault("pipedrive.fields.deal_type", "")
	v.SetDefault("pipedrive.fields.comment", "")
	v.SetDefault("pipedrive.timeout_secs", 30)
	v.SetDefault("pipedrive.rate_limit_per_sec", 0)
	v.SetDefault("store.path", "leadsync.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.event_file", "logs/integration.log")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
