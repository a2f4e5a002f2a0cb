// Package config assembles the application configuration from defaults,
// command-line flags, a .env file, and environment variables, in that order
// of increasing precedence, and validates the result.
package config

import (
	"flag"
	"log"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	RunAddr                    string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	ShortURLBase               string        `env:"BASE_URL" validate:"url"`
	LogLevel                   string        `env:"LOG_LEVEL" validate:"loglevel"`
	AuthCookieName             string        `env:"AUTH_COOKIE_NAME" validate:"required"`
	AuthCookieSigningSecretKey string        `env:"AUTH_COOKIE_SIGNING_SECRET_KEY" validate:"required"`
	TrustedSubnet              string        `env:"TRUSTED_SUBNET"`
	ShutdownTimeout            time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

var defaultConfig = Config{
	RunAddr:        ":8080",
	ShortURLBase:   "http://localhost:8080",
	LogLevel:       "info",
	AuthCookieName: "tinyapp_session",

	// base64url of a development-only key; override in any real deployment.
	AuthCookieSigningSecretKey: "dGlueWFwcC1kZXYtc2lnbmluZy1rZXk=",

	TrustedSubnet:   "",
	ShutdownTimeout: 10 * time.Second,
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func (values *Config) validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	return validate.Struct(values)
}

// InitOption customizes the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing turns off command-line flag parsing.
// Tests use it because the test binary defines its own flags.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds a validated Config.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := defaultConfig

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.ShortURLBase, "b", values.ShortURLBase, "base address of the resulting shortened URL")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.TrustedSubnet, "t", values.TrustedSubnet, "CIDR of the subnet allowed to read internal stats")
		flag.Parse()
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	applyOverrides(&values, &valuesFromEnv)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return &values, nil
}

func applyOverrides(values, overrides *Config) {
	if overrides.RunAddr != "" {
		values.RunAddr = overrides.RunAddr
	}

	if overrides.ShortURLBase != "" {
		values.ShortURLBase = overrides.ShortURLBase
	}

	if overrides.LogLevel != "" {
		values.LogLevel = overrides.LogLevel
	}

	if overrides.AuthCookieName != "" {
		values.AuthCookieName = overrides.AuthCookieName
	}

	if overrides.AuthCookieSigningSecretKey != "" {
		values.AuthCookieSigningSecretKey = overrides.AuthCookieSigningSecretKey
	}

	if overrides.TrustedSubnet != "" {
		values.TrustedSubnet = overrides.TrustedSubnet
	}

	if overrides.ShutdownTimeout != 0 {
		values.ShutdownTimeout = overrides.ShutdownTimeout
	}
}
