package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/gridchess/internal/obslog"
)

type AppConfig struct {
	HTTPAddr string

	RedisURL    string
	DatabaseURL string

	SessionTTL time.Duration

	MessagesDir string
	StartFEN    string

	RenderSquareSize int

	Log obslog.Options
}

// Load reads the environment. Only the server needs REDIS_URL; see RequireServer.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPAddr:         ":8080",
		SessionTTL:       24 * time.Hour,
		RenderSquareSize: 64,
	}

	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))
	cfg.StartFEN = strings.TrimSpace(os.Getenv("START_FEN"))

	if v := strings.TrimSpace(os.Getenv("SESSION_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTL = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("RENDER_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 16 && n <= 256 {
			cfg.RenderSquareSize = n
		}
	}

	cfg.Log = obslog.OptionsFromEnv()

	if strings.HasPrefix(cfg.HTTPAddr, "http") {
		return nil, errors.New("HTTP_ADDR must be host:port, not a URL")
	}
	return cfg, nil
}

// RequireServer checks the settings the HTTP server cannot run without.
func (c *AppConfig) RequireServer() error {
	if c.RedisURL == "" {
		return errors.New("REDIS_URL is required")
	}
	return nil
}
