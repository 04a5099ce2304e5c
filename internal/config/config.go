package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	OLX      OLXConfig      `mapstructure:"olx"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Port                  int        `mapstructure:"port" validate:"min=1,max=65535"`
	Flavor                string     `mapstructure:"flavor" validate:"required"`
	CORS                  CORSConfig `mapstructure:"cors"`
	RequestTimeoutSeconds int        `mapstructure:"request_timeout_seconds" validate:"min=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MarkdownConfig struct {
	Flavor     string `mapstructure:"flavor" validate:"required"`
	FlavorFile string `mapstructure:"flavor_file" validate:"omitempty,file"`
	// DocumentTemplate is optional; the embedded template is used when it is empty or unreadable
	DocumentTemplate string         `mapstructure:"document_template" validate:"omitempty,file"`
	Extensions       []string       `mapstructure:"extensions" validate:"dive,gosource"`
	Options          map[string]any `mapstructure:"options"`
}

type OLXConfig struct {
	Locale   string `mapstructure:"locale" validate:"oneof=en es fr de ja pt"`
	Metadata bool   `mapstructure:"metadata"`
}

type ClientConfig struct {
	BaseURL          string `mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds" validate:"min=1"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts" validate:"min=1"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/olxmark")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 6222)
	v.SetDefault("server.flavor", "github")
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.request_timeout_seconds", 30)
	v.SetDefault("markdown.flavor", "vanilla")
	v.SetDefault("markdown.flavor_file", "")
	v.SetDefault("markdown.document_template", "")
	v.SetDefault("olx.locale", "en")
	v.SetDefault("olx.metadata", false)
	v.SetDefault("client.base_url", "")
	v.SetDefault("client.timeout_seconds", 30)
	v.SetDefault("client.max_retry_attempts", 5)

	if err := v.BindEnv("client.base_url", "OLXMARK_SERVER_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind OLXMARK_SERVER_URL environment variable: %w", err)
	}
	if err := v.BindEnv("olx.locale", "OLXMARK_LOCALE"); err != nil {
		return nil, fmt.Errorf("failed to bind OLXMARK_LOCALE environment variable: %w", err)
	}
	if err := v.BindEnv("server.port", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind PORT environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// Load reads the configuration from configFile, or from the default locations when it is empty.
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
