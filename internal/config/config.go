package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Oracle OracleConfig `yaml:"oracle" mapstructure:"oracle"`
	PII    PIIConfig    `yaml:"pii" mapstructure:"pii"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// OracleConfig holds the AI service settings. An empty key disables the
// oracle; extraction then runs on local patterns only.
type OracleConfig struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the configured oracle timeout as a duration.
func (c OracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// PIIConfig configures the PII scanner.
type PIIConfig struct {
	// Detectors is a pipe-delimited list of detector category names.
	// Empty selects the default set.
	Detectors string `yaml:"detectors" mapstructure:"detectors"`
	// PatternsFile points to a YAML file of custom detection patterns.
	PatternsFile string `yaml:"patterns_file" mapstructure:"patterns_file"`
}

// DetectorList splits the pipe-delimited detector names.
func (c PIIConfig) DetectorList() []string {
	if strings.TrimSpace(c.Detectors) == "" {
		return nil
	}
	var out []string
	for _, name := range strings.Split(c.Detectors, "|") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LOGSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Valueless keys are still registered so AutomaticEnv can
	// populate them; viper only unmarshals keys it knows about.
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("pii.detectors", "")
	v.SetDefault("pii.patterns_file", "")
	v.SetDefault("oracle.endpoint", "https://openrouter.ai/api/v1")
	v.SetDefault("oracle.model", "anthropic/claude-3-5-sonnet-20241022")
	v.SetDefault("oracle.timeout_secs", 60)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "logsense.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
