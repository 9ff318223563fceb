package logger

import (
	"context"
	"fmt"
	"time"

	"go-assistant/internal/config"
	"go-assistant/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// Entry holds the data passed from zap to the audit worker
type Entry struct {
	Level    zapcore.Level
	Message  string
	PromptID string
	ThreadID string
	UserID   string
	Caller   string
}

// auditRecord is the persisted shape of an audit entry.
type auditRecord struct {
	AppID        string    `bson:"app_id"`
	Message      string    `bson:"message"`
	PromptID     string    `bson:"prompt_id,omitempty"`
	ThreadID     string    `bson:"thread_id,omitempty"`
	UserID       string    `bson:"user_id,omitempty"`
	Caller       string    `bson:"caller,omitempty"`
	LogLevelId   int       `bson:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}

// AuditWriter handles async writing to the primary Mongo sink and, when
// configured, the secondary Postgres mirror.
type AuditWriter struct {
	db      *mongo.Database
	mirror  *PgMirror
	logChan chan Entry
	appId   string
}

// NewAuditWriter initializes the background worker
func NewAuditWriter(mongodb *database.MongodbDB, cfg *config.Config) *AuditWriter {
	writer := &AuditWriter{
		db:      mongodb.DB,
		logChan: make(chan Entry, 1000), // Buffer 1000 entries
		appId:   cfg.AppId,
	}

	if cfg.AuditPgDSN != "" {
		mirror, err := NewPgMirror(cfg.AuditPgDSN)
		if err != nil {
			// Mirror is optional: log and continue with Mongo only.
			fmt.Println("audit mirror unavailable:", err)
		} else {
			writer.mirror = mirror
		}
	}

	go writer.processEntries()

	return writer
}

// AddEntry is called by the AuditCore hook
func (w *AuditWriter) AddEntry(entry Entry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop the entry rather than blocking request paths.
		fmt.Println("Audit channel full! Dropping entry:", entry.Message)
	}
}

func (w *AuditWriter) processEntries() {
	for entry := range w.logChan {
		record := auditRecord{
			AppID:        w.appId,
			Message:      entry.Message,
			PromptID:     entry.PromptID,
			ThreadID:     entry.ThreadID,
			UserID:       entry.UserID,
			Caller:       entry.Caller,
			LogLevelId:   mapLevelToInt(entry.Level),
			CreatedOnUtc: time.Now().UTC(),
		}

		// Primary sink. Errors are swallowed to keep the app running.
		w.db.Collection("logs").InsertOne(context.Background(), record)

		// Secondary mirror, best effort.
		if w.mirror != nil {
			if err := w.mirror.Write(record); err != nil {
				fmt.Println("audit mirror write failed:", err)
			}
		}
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
