package config

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging configures the global logrus logger from the loaded config.
// When LOG_FILE is set the output is rotated by lumberjack.
func SetupLogging(cfg *Config) {
	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    32, // megabytes
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		})
	} else {
		log.SetOutput(os.Stderr)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&log.TextFormatter{
		PadLevelText:    true,
		DisableColors:   cfg.LogFile != "",
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	})
}

// Location is the configured timezone used for "today" and hourly reports.
// Load resolves it once; a Config built by hand resolves it on every call.
func (c *Config) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	return resolveLocation(c.Timezone)
}

func resolveLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).WithField("timezone", name).Warn("Unknown timezone, falling back to local time")
		return time.Local
	}
	return loc
}
