package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/kidzstudio/examportal/pkg/logger"
)

// ConfigureLogging installs the global logger described by the server
// section. Unlike logger.InitWithOptions it rejects unknown levels and
// encodings so a typo in config.yaml fails at startup.
func ConfigureLogging(cfg ServerConfig) error {
	level := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if level == "" {
		level = "info"
	}
	if _, err := zapcore.ParseLevel(level); err != nil {
		return fmt.Errorf("server.log_level: %w", err)
	}

	encoding := strings.ToLower(strings.TrimSpace(cfg.LogEncoding))
	switch encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("server.log_encoding: unsupported encoding %q (json or console)", cfg.LogEncoding)
	}

	return logger.InitWithOptions(logger.Options{Level: level, Encoding: encoding})
}
