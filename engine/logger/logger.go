// Package logger holds the process-wide structured logger used by the engine packages.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared engine logger. It discards everything until Init or Set is called.
var Log = zap.NewNop()

// Init replaces Log with a console logger.
//
// Parameters:
//   - debug: when true, a development logger at Debug level is built; otherwise a production logger at Info level
//
// Returns:
//   - error: an error if the zap configuration could not be built
func Init(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Set replaces Log with l. A nil logger resets Log to a no-op logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
