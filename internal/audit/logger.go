package audit

import (
	"context"
	"encoding/json"

	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

// Logger persists events to the audit_logs table.
type Logger struct {
	logs *store.AuditStore
}

func New(logs *store.AuditStore) *Logger {
	return &Logger{logs: logs}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := &models.AuditLog{
		Action:    ev.Action,
		Entity:    ev.Entity,
		Metadata:  metaJSON,
		CreatedAt: ev.At,
	}
	if ev.EntityID != 0 {
		id := ev.EntityID
		entry.EntityID = &id
	}

	return l.logs.Append(ctx, store.OwnedBy(ev.UserID), entry)
}
