package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	L     *zap.Logger
	level = zap.NewAtomicLevelAt(levelFromEnv(os.Getenv("LOG_LEVEL")))
)

func init() {
	var err error
	L, err = newConfig(level).Build()
	if err != nil {
		panic(err)
	}
}

func newConfig(lvl zap.AtomicLevel) zap.Config {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = lvl
	return config
}

func levelFromEnv(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil || s == "" {
		return zapcore.InfoLevel
	}
	return level
}

// SetLevel 在設定載入後調整日誌等級；init 時 .env 還沒讀進來
func SetLevel(s string) {
	level.SetLevel(levelFromEnv(s))
}

// WithComponent 回傳帶有 component 欄位的 logger，供 handler、service、worker、queue 等使用
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}

// Sync flushes buffered entries; call it once on shutdown.
func Sync() {
	_ = L.Sync()
}
