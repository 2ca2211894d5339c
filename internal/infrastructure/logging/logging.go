package logging

import (
	"fmt"
	"io"

	"github.com/grocerylens/backend/config"
	"github.com/sirupsen/logrus"
)

// Configure applies the log level and format to logger
func Configure(logger *logrus.Logger, cfg config.LogConfig, out io.Writer) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", cfg.Format)
	}

	if out != nil {
		logger.SetOutput(out)
	}
	return nil
}
