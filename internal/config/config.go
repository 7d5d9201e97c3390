package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the application configuration
type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR"      envDefault:":8080"`
	CurrentOrigin   string        `env:"CURRENT_ORIGIN"`
	TrustedOrigins  []string      `env:"TRUSTED_ORIGINS"  envSeparator:","`
	TemplateVersion string        `env:"TEMPLATE_VERSION" envDefault:"1.0.0"`
	ResponseTimeout time.Duration `env:"RESPONSE_TIMEOUT" envDefault:"5s"`
	ImageCacheSize  int           `env:"IMAGE_CACHE_SIZE" envDefault:"64"`
	MaxFrameBytes   int64         `env:"MAX_FRAME_BYTES"  envDefault:"8388608"`
	DataDir         string        `env:"DATA_DIR"         envDefault:"data"`
	// WhatsAppNotifyPhone enables couple-side RSVP alerts when set.
	WhatsAppNotifyPhone string `env:"WHATSAPP_NOTIFY_PHONE"`
	LogLevel            string `env:"LOG_LEVEL"  envDefault:"info"`
	LogPretty           bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Defaults returns the configuration used when the environment cannot be parsed
func Defaults() *Config {
	return &Config{
		ListenAddr:      ":8080",
		TemplateVersion: "1.0.0",
		ResponseTimeout: 5 * time.Second,
		ImageCacheSize:  64,
		MaxFrameBytes:   8 << 20,
		DataDir:         "data",
		LogLevel:        "info",
	}
}

// LoadConfig loads configuration from a .env file (if any) and the environment.
// A malformed environment falls back to defaults rather than stopping startup.
func LoadConfig(log zerolog.Logger) *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not read .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Warn().Err(err).Msg("Invalid environment, using defaults")
		cfg = Defaults()
	}
	cfg.TrustedOrigins = cleanOrigins(cfg.TrustedOrigins)
	if cfg.ImageCacheSize <= 0 {
		cfg.ImageCacheSize = Defaults().ImageCacheSize
	}
	if cfg.MaxFrameBytes <= 0 {
		cfg.MaxFrameBytes = Defaults().MaxFrameBytes
	}
	return cfg
}

// Logger builds the root logger for the configured level and format
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if c.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func cleanOrigins(origins []string) []string {
	var out []string
	seen := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
