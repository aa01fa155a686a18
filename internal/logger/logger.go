package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production zap logger named for the component. JSON output,
// RFC3339 timestamps, stdout only.
func New(component string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	lg, err := cfg.Build()
	if err != nil {
		lg = zap.NewNop()
	}
	return lg.Named(component)
}
