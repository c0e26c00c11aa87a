// Package middleware provides logging shared by the command line and the
// HTTP server, and gin middlewares.
package middleware

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/go-petr/authorizer/pkg/configpkg"
)

// RequestIDHeader carries the request id in requests and responses.
const RequestIDHeader = "X-Request-ID"

// CreateLogger returns the application logger writing to stderr.
func CreateLogger(config configpkg.Config) zerolog.Logger {
	return NewLogger(os.Stderr, config)
}

// NewLogger returns a logger writing to output. Stdout is never used since
// it carries the authorizer results.
func NewLogger(output io.Writer, config configpkg.Config) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logLevel, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || config.LogLevel == "" {
		logLevel = zerolog.InfoLevel // default to INFO
	}

	log := zerolog.New(output).
		Level(logLevel).
		With().
		Timestamp().
		Logger()

	if config.Environment == "development" {
		log = log.
			Output(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}).
			With().
			Caller().
			Logger()
	}

	return log
}

// RequestLogger logs a gin HTTP request in JSON format.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.Request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, requestID)
		}

		c.Writer.Header().Set(RequestIDHeader, requestID)

		l := logger.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()

		var logEvent *zerolog.Event
		if status >= http.StatusInternalServerError {
			logEvent = l.Error()
		} else {
			logEvent = l.Info()
		}

		logEvent.
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Int("status_code", status).
			Str("path", c.Request.URL.Path).
			Str("latency", time.Since(start).String()).
			Msg(c.Errors.ByType(gin.ErrorTypePrivate).String())
	}
}
