package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rezonia/cii-invoice/internal/logger"
	"github.com/rezonia/cii-invoice/internal/schema"
)

// EnvPrefix prefixes every environment variable, e.g. CII_RENDER_VERSION
const EnvPrefix = "CII"

type Configuration struct {
	Render  RenderConfig  `mapstructure:"render" validate:"required"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Logging LoggingConfig `mapstructure:"logging" validate:"required"`
	Batch   BatchConfig   `mapstructure:"batch"`
}

// RenderConfig holds the defaults for rendering when a caller names none
type RenderConfig struct {
	Version int    `mapstructure:"version" validate:"oneof=1 2 3"`
	Mode    string `mapstructure:"mode" validate:"oneof=zugferd xrechnung"`
}

type SchemaConfig struct {
	Dir      string        `mapstructure:"dir"`
	Xmllint  string        `mapstructure:"xmllint"`
	XSLT     string        `mapstructure:"xslt"`
	XSLTArgs []string      `mapstructure:"xslt_args"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address" validate:"required"`
	Mode         string `mapstructure:"mode" validate:"oneof=debug release test"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" validate:"min=1"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Output string `mapstructure:"output"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"min=1"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("render.version", 2)
	v.SetDefault("render.mode", "zugferd")

	tools := schema.DefaultToolConfig()
	v.SetDefault("schema.dir", tools.SchemaDir)
	v.SetDefault("schema.xmllint", tools.XmllintPath)
	v.SetDefault("schema.xslt", tools.XSLTPath)
	v.SetDefault("schema.xslt_args", tools.XSLTArgs)
	v.SetDefault("schema.timeout", tools.Timeout)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.max_body_bytes", 10<<20)

	logDefaults := logger.DefaultConfig()
	v.SetDefault("logging.level", logDefaults.Level)
	v.SetDefault("logging.format", logDefaults.Format)
	v.SetDefault("logging.output", logDefaults.Output)

	v.SetDefault("batch.concurrency", 8)
}

// NewConfig loads defaults, then cii-invoice.yaml (or configFile when set),
// then .env and CII_* environment variables.
func NewConfig(configFile string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("cii-invoice")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cii-invoice")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	return validator.New().Struct(c)
}

// GetDefaultConfig returns the configuration used when nothing is set
func GetDefaultConfig() *Configuration {
	v := viper.New()
	setDefaults(v)

	var config Configuration
	_ = v.Unmarshal(&config)
	return &config
}

// ToolConfig converts to the schema checker configuration
func (c SchemaConfig) ToolConfig() schema.ToolConfig {
	return schema.ToolConfig{
		SchemaDir:   c.Dir,
		XmllintPath: c.Xmllint,
		XSLTPath:    c.XSLT,
		XSLTArgs:    c.XSLTArgs,
		Timeout:     c.Timeout,
	}
}

// LogConfig converts to the logger configuration
func (c LoggingConfig) LogConfig() logger.LogConfig {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	if c.Output != "" {
		cfg.Output = c.Output
	}
	return cfg
}
