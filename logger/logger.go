package logger

import (
	"go.uber.org/zap"
)

// Log is a no-op until Init runs, so library code can log unconditionally.
var Log = zap.NewNop().Sugar()

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Sync flushes buffered log entries. Meant to be deferred from main.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
