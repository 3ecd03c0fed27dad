package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

var levels = map[string]log.Level{
	"error": log.ErrorLevel,
	"warn":  log.WarnLevel,
	"info":  log.InfoLevel,
	"debug": log.DebugLevel,
	"trace": log.TraceLevel,
}

func parseLevel(s string) (log.Level, error) {
	lvl, ok := levels[s]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// NewLogger returns a logger writing to stderr at the configured level.
func (c *Config) NewLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Verbose reports whether debug messages are enabled.
func (c *Config) Verbose() bool {
	lvl, err := parseLevel(c.LogLevel)
	return err == nil && lvl >= log.DebugLevel
}
