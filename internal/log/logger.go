package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a no-op until InitLogger runs, so packages can log from tests
// without any setup.
var Logger = zap.NewNop()

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func InitLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	Logger = l
}

// SetLevel changes the level of the process logger at runtime.
func SetLevel(name string) error {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
