package logger

import (
	"go.uber.org/zap/zapcore"
)

// AuditCore is a zap core that tees every entry to the audit writer while
// still delegating to the wrapped console core.
type AuditCore struct {
	zapcore.Core
	writer *AuditWriter
}

// NewAuditCore wraps an existing core (console/JSON) and adds audit mirroring
func NewAuditCore(baseCore zapcore.Core, writer *AuditWriter) zapcore.Core {
	return &AuditCore{
		Core:   baseCore,
		writer: writer,
	}
}

// Write is called for every log entry
func (c *AuditCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var promptID, threadID, userID string

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
		switch f.Key {
		case "prompt_id":
			promptID = f.String
		case "thread_id":
			threadID = f.String
		case "user_id":
			userID = f.String
		}
	}

	c.writer.AddEntry(Entry{
		Level:    entry.Level,
		Message:  entry.Message,
		PromptID: promptID,
		ThreadID: threadID,
		UserID:   userID,
		Caller:   entry.Caller.Function,
	})

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *AuditCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
