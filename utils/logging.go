package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogging sets the process wide log level and output. An unknown level
// is rejected with an error, leaving the logger at info so it can be reported.
func InitLogging(level string, pretty bool) (err error) {
	return initLogging(os.Stderr, level, pretty)
}

func initLogging(w io.Writer, level string, pretty bool) (err error) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		})
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}
	return
}
