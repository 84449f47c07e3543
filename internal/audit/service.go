// Package audit records who changed what. Every mutating handler writes an
// entry through the same Repo as its business write, so a rolled back
// transaction leaves no orphan log line.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"costbook-backend/internal/models"
	"costbook-backend/internal/store"
)

type LogOptions struct {
	OwnerID     uint
	UserID      uint
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// jsonb columns reject empty strings, so absent snapshots are stored as null.
func snapshot(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func WriteLog(ctx context.Context, repo store.Repo, opts LogOptions) error {
	userID := opts.UserID
	if userID == 0 {
		userID = opts.OwnerID
	}

	entry := models.AuditLog{
		OwnerID:     opts.OwnerID,
		UserID:      userID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}

	if err := repo.CreateAuditLog(ctx, &entry); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}
