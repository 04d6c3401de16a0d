package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger builds the process logger. JSON output is used outside
// development or when LOG_FORMAT=json.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	return newLogger(logLevel, isDevelopment, os.Stdout)
}

func newLogger(logLevel string, isDevelopment bool, out io.Writer) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(out)

	Logger = log
	return log
}

// GetLogger returns the global logger, creating an info-level one on first use
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithService creates a logger with service context
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

func orGlobal(log *logrus.Logger) *logrus.Logger {
	if log == nil {
		return GetLogger()
	}
	return log
}

// WithEvaluationContext tags entries with the evaluation being processed.
// A nil log uses the global logger.
func WithEvaluationContext(log *logrus.Logger, evaluationID, league string) *logrus.Entry {
	return orGlobal(log).WithFields(logrus.Fields{
		"evaluation_id": evaluationID,
		"league":        league,
	})
}

// WithHTTPContext creates a logger with HTTP request context
func WithHTTPContext(log *logrus.Logger, method, path, clientIP string) *logrus.Entry {
	return orGlobal(log).WithFields(logrus.Fields{
		"method":    method,
		"path":      path,
		"client_ip": clientIP,
	})
}
