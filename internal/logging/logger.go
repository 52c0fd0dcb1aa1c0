// Package logging builds the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"blog_api/internal/config"
)

func New(cfg config.LogConfig) *logrus.Logger {
	return newLogger(cfg, os.Stdout)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	return newLogger(config.LogConfig{Level: "panic"}, io.Discard)
}

func newLogger(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}

	return log
}
