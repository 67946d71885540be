package logger

import (
	"io"
	stdlog "log"
	"os"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/blogem/access-log-viewer/config"
)

// Init configures the global zerolog logger from config.
//
// Pretty output is a coloured console writer for local development; otherwise
// JSON lines go to stdout. Every line carries the service name. The standard
// library logger is redirected into zerolog so stray log.Printf calls from
// dependencies end up in the same stream. Request lines are written by
// middleware.RequestLogger.
func Init(cfg config.LoggingConfig) {
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && l != zerolog.NoLevel {
		level = l
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	zlog.Logger = zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()

	stdlog.SetFlags(0)
	stdlog.SetOutput(zlog.Logger)
}
