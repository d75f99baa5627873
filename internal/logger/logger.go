package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger. pretty switches to a colored console
// writer; otherwise lines are JSON on stdout.
func New(level string, pretty bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, pretty)
}

func NewWithWriter(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldInteger = true

	out := w
	if pretty {
		out = consoleWriter(w)
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05 MST",
	}

	output.FormatLevel = func(i interface{}) string {
		level, _ := i.(string)
		level = strings.ToUpper(level)

		var color string
		switch level {
		case "DEBUG":
			color = "\x1b[32m"
		case "INFO":
			color = "\x1b[34m"
		case "WARN":
			color = "\x1b[33m"
		case "ERROR", "FATAL":
			color = "\x1b[31m"
		default:
			color = "\x1b[0m"
		}
		return fmt.Sprintf("%s| %-6s|\x1b[0m", color, level)
	}

	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("\x1b[36m%s:\x1b[0m", i)
	}

	return output
}
