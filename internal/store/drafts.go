package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Draft is one applied generation result.
type Draft struct {
	ID            uuid.UUID
	SessionID     string
	Seq           uint64
	Kind          string
	Purpose       string
	RecipientRole string
	RoleVariant   string
	OutputLocale  string
	Revision      string
	Body          string
	Provider      string
	CreatedAt     time.Time
}

// RecordDraft appends d to the journal and returns its id.
func (s *Store) RecordDraft(ctx context.Context, d Draft) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO brief_drafts (id, session_id, seq, kind, purpose, recipient_role, role_variant, output_locale, revision, body, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())`,
		id, d.SessionID, int64(d.Seq), d.Kind, d.Purpose, d.RecipientRole, d.RoleVariant, d.OutputLocale, d.Revision, d.Body, d.Provider,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert draft: %w", err)
	}
	return id, nil
}

// SessionDrafts returns the journal of one session, oldest first.
func (s *Store) SessionDrafts(ctx context.Context, sessionID string) ([]Draft, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, seq, kind, purpose, recipient_role, role_variant, output_locale, revision, body, provider, created_at
		FROM brief_drafts
		WHERE session_id = $1
		ORDER BY seq, created_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		var d Draft
		var seq int64
		if err := rows.Scan(&d.ID, &d.SessionID, &seq, &d.Kind, &d.Purpose, &d.RecipientRole, &d.RoleVariant, &d.OutputLocale, &d.Revision, &d.Body, &d.Provider, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		d.Seq = uint64(seq)
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}
