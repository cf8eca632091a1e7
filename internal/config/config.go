// Package config loads service settings. Values start from Default, are
// overridden by an optional TOML file and then by STIMAGE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	validation "github.com/go-ozzo/ozzo-validation"

	pkgerrors "github.com/hrterry/STImage-WebAPP/pkg/errors"
	"github.com/hrterry/STImage-WebAPP/pkg/logger"
)

const EnvPrefix = "STIMAGE_"

type Config struct {
	HTTPAddress        string    `toml:"http_address" env:"HTTP_ADDRESS" json:"http_address"`
	UploadDir          string    `toml:"upload_dir" env:"UPLOAD_DIR" json:"upload_dir"`
	MaxUploadMemory    string    `toml:"max_upload_memory" env:"MAX_UPLOAD_MEMORY" json:"max_upload_memory"`
	CORSAllowedOrigins []string  `toml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" json:"cors_allowed_origins"`
	ShutdownTimeout    Duration  `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout"`
	Logging            LogConfig `toml:"logging" envPrefix:"LOG_" json:"logging"`
}

type LogConfig struct {
	Level   string `toml:"level" env:"LEVEL" json:"level"`
	Format  string `toml:"format" env:"FORMAT" json:"format"`
	File    string `toml:"file" env:"FILE" json:"file"`
	MaxSize int    `toml:"max_log_size" env:"MAX_SIZE" json:"max_log_size"`
	MaxAge  int    `toml:"max_log_age" env:"MAX_AGE" json:"max_log_age"`
}

// Duration accepts Go duration strings such as "30s" from TOML and the
// environment.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func Default() Config {
	return Config{
		HTTPAddress:        ":8000",
		UploadDir:          "uploads",
		MaxUploadMemory:    "32 MB",
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeout:    Duration{30 * time.Second},
		Logging: LogConfig{
			Level:   "info",
			Format:  "text",
			MaxSize: 100,
			MaxAge:  30,
		},
	}
}

// Load reads the TOML file at path, if any, then applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not decode TOML config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.HTTPAddress, validation.Required),
		validation.Field(&c.UploadDir, validation.Required),
		validation.Field(&c.MaxUploadMemory, validation.Required, validation.By(isByteSize)),
		validation.Field(&c.CORSAllowedOrigins, validation.Required),
		validation.Field(&c.Logging),
	)
	var errs validation.Errors
	if errors.As(err, &errs) {
		return pkgerrors.NewValidationErrorFromOzzo(errs)
	}
	return err
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.In("text", "json")),
		validation.Field(&c.MaxSize, validation.Min(0)),
		validation.Field(&c.MaxAge, validation.Min(0)),
	)
}

func isByteSize(value interface{}) error {
	s, _ := value.(string)
	if _, err := humanize.ParseBytes(s); err != nil {
		return errors.New("must be a byte size such as 32 MB")
	}
	return nil
}

// MaxUploadMemoryBytes is the multipart in-memory limit; larger parts
// spill to temporary files.
func (c Config) MaxUploadMemoryBytes() int64 {
	n, err := humanize.ParseBytes(c.MaxUploadMemory)
	if err != nil {
		return 32 << 20
	}
	return int64(n)
}

func (c LogConfig) Logger() logger.Config {
	return logger.Config{
		Level:   c.Level,
		Format:  c.Format,
		File:    c.File,
		MaxSize: c.MaxSize,
		MaxAge:  c.MaxAge,
	}
}
