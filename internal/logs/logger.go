package logs

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.LevelFieldName = "severity"
	zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
		return strings.ToUpper(l.String())
	}
}

// Init configures the global logger. format is "json" or "console".
func Init(level, format string) {
	InitWithWriter(level, format, os.Stdout)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(level, format string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	mu.Lock()
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	mu.Unlock()
}

// Logger returns the configured logger.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// LogJSON writes one structured entry. level is one of DEBUG, INFO, WARN,
// ERROR or FATAL; FATAL is logged at error level and does not exit.
func LogJSON(level, message string, fields map[string]interface{}) {
	l := Logger()

	var ev *zerolog.Event
	switch strings.ToUpper(level) {
	case "DEBUG":
		ev = l.Debug()
	case "WARN":
		ev = l.Warn()
	case "ERROR", "FATAL":
		ev = l.Error()
	default:
		ev = l.Info()
	}
	ev.Fields(fields).Msg(message)
}
