package initialize

import (
	"io"
	"os"
	"strings"
	"time"

	"quicksort/backend/config"
	"quicksort/backend/global"

	"github.com/rs/zerolog"
)

func init() {
	// basic console logger until the config is loaded
	global.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
}

// SetupLogger replaces global.Logger according to cfg.
func SetupLogger(cfg config.Log, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if strings.ToLower(cfg.Format) != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	global.Logger = logger
	return logger
}
