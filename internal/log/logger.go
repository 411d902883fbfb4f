package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const production = "production"

func New(environment string) zerolog.Logger {
	return NewWithWriter(environment, os.Stdout)
}

// NewWithWriter logs JSON lines at info level in production and colored
// console output at debug level everywhere else.
func NewWithWriter(environment string, out io.Writer) zerolog.Logger {
	level := zerolog.DebugLevel
	writer := out
	if environment == production {
		level = zerolog.InfoLevel
	} else {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("app", "jhs-backend").
		Str("env", environment).
		Logger()
}
