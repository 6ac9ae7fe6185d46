package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "translategate"

// New builds the process logger. Local environments get a human readable
// console writer; everything else logs JSON lines to stdout.
func New(environment, level string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stdout, environment, level)
}

func NewWithWriter(out io.Writer, environment, level string) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse LOG_LEVEL=%q: %w", level, err)
	}
	if out == nil {
		out = os.Stdout
	}

	writer := out
	if strings.EqualFold(strings.TrimSpace(environment), "local") {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger(), nil
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
