package logger

import (
	"go-assistant/internal/config"
	"go-assistant/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the application logger. Every entry is written to the
// console (primary sink) and mirrored, best effort, to the audit store.
// Mirror failures never fail the primary path.
func NewLogger(cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Caller info is needed so audit rows record the originating function.
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	writer := NewAuditWriter(mongodb, cfg)
	core := NewAuditCore(baseLogger.Core(), writer)

	l := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(l)
	return l, nil
}
