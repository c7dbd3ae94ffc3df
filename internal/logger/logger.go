// Package logger holds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

func init() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "msg"

	var err error
	log, err = config.Build()
	if err != nil {
		panic(err)
	}
}

// L returns the shared logger.
func L() *zap.Logger {
	return log
}

// SetDebug switches the shared logger to a development encoder at debug level.
func SetDebug() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "msg"
	if l, err := config.Build(); err == nil {
		log = l
	}
}

// Sync flushes buffered entries.
func Sync() {
	_ = log.Sync()
}
