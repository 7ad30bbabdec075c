package obslog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Process-wide logger. Nop until Init runs so library code can log unconditionally.
var (
	globalLogger *zap.Logger = zap.NewNop()
)

// L returns the global logger.
func L() *zap.Logger { return globalLogger }

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := globalLogger
	if l == nil {
		l = zap.NewNop()
	}
	globalLogger = l
	return func() { globalLogger = prev }
}

// Options mirrors the LOG_* environment variables.
type Options struct {
	Level   string
	Format  string // legacy | json | console
	Console bool
	File    string // empty disables file output
	Caller  bool
}

// DefaultOptions is what InitFromEnv falls back to.
func DefaultOptions() Options {
	return Options{
		Level:   "info",
		Format:  "legacy",
		Console: true,
		File:    filepath.Join("logs", "gridchess.log"),
	}
}

// OptionsFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_TO_CONSOLE, LOG_TO_FILE, LOG_FILE and LOG_CALLER.
func OptionsFromEnv() Options {
	o := DefaultOptions()
	o.Level = getenvDefault("LOG_LEVEL", o.Level)
	o.Format = getenvDefault("LOG_FORMAT", o.Format)
	o.Console = strings.EqualFold(getenvDefault("LOG_TO_CONSOLE", "true"), "true")
	o.Caller = strings.EqualFold(getenvDefault("LOG_CALLER", "false"), "true")
	o.File = strings.TrimSpace(getenvDefault("LOG_FILE", o.File))
	if !strings.EqualFold(getenvDefault("LOG_TO_FILE", "false"), "true") {
		o.File = ""
	}
	return o
}

// InitFromEnv initializes the global logger from LOG_* variables.
func InitFromEnv() error { return Init(OptionsFromEnv()) }

// Init builds a tee of console and file cores and installs it globally.
func Init(o Options) error {
	logger, err := Build(o, os.Stdout)
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

// Build constructs a logger writing console output to w.
func Build(o Options, w io.Writer) (*zap.Logger, error) {
	level := parseLevel(o.Level)
	format := strings.ToLower(strings.TrimSpace(o.Format))
	if format != "legacy" && format != "json" && format != "console" {
		format = "legacy"
	}

	var cores []zapcore.Core
	if o.Console && w != nil {
		cores = append(cores, zapcore.NewCore(newEncoder(format), zapcore.AddSync(w), level))
	}

	if path := strings.TrimSpace(o.File); path != "" {
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(newEncoder(format), zapcore.AddSync(f), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if o.Caller || format == "legacy" {
		logger = logger.WithOptions(zap.AddCaller())
	}
	return logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func newEncoder(format string) zapcore.Encoder {
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	case "console":
		return zapcore.NewConsoleEncoder(consoleEncoderConfig())
	default:
		return zapcore.NewConsoleEncoder(legacyEncoderConfig())
	}
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func legacyEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
