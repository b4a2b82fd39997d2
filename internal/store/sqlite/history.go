package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/store"
)

// historyColumns is the ordered list of columns selected in history queries.
// Must match the scan order in scanHistory.
const historyColumns = `id, action, item_id, title, visibility, tags,
	change_notes, content_path, preview_path, succeeded, message, created_at`

// scanHistory scans a sql.Row (or sql.Rows via its Scan method) into a domain.HistoryEntry.
func scanHistory(scanner interface{ Scan(dest ...any) error }) (*domain.HistoryEntry, error) {
	var (
		e         domain.HistoryEntry
		tags      string
		succeeded int
		createdAt string
	)

	err := scanner.Scan(
		&e.ID,
		&e.Action,
		&e.ItemID,
		&e.Title,
		&e.Visibility,
		&tags,
		&e.ChangeNotes,
		&e.ContentPath,
		&e.PreviewPath,
		&succeeded,
		&e.Message,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	e.Tags = domain.SplitTags(tags)
	e.Succeeded = succeeded != 0

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// AddHistory persists one workshop operation record.
func (s *Store) AddHistory(ctx context.Context, entry *domain.HistoryEntry) error {
	if entry == nil || entry.ID == "" {
		return store.ErrInvalidInput.WithMessage("history entry requires an ID")
	}

	succeeded := 0
	if entry.Succeeded {
		succeeded = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO upload_history (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Action),
		entry.ItemID,
		entry.Title,
		string(entry.Visibility),
		strings.Join(entry.Tags, ","),
		entry.ChangeNotes,
		entry.ContentPath,
		entry.PreviewPath,
		succeeded,
		entry.Message,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return store.ErrInvalidInput.WithMessage("insert history entry").WithCause(err)
	}

	s.logger.Debug("recorded history entry",
		"id", entry.ID,
		"action", entry.Action,
		"item_id", entry.ItemID,
		"succeeded", entry.Succeeded,
	)
	return nil
}

// GetHistory returns a single history entry by ID.
func (s *Store) GetHistory(ctx context.Context, id string) (*domain.HistoryEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+historyColumns+`
		FROM upload_history
		WHERE id = ?`, id)

	entry, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("history entry not found")
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListHistory returns entries newest first. A limit of 0 or less means no
// limit.
func (s *Store) ListHistory(ctx context.Context, limit, offset int) ([]*domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded.
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+historyColumns+`
		FROM upload_history
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHistory(rows)
}

// ListHistoryForItem returns all entries touching one workshop item,
// newest first.
func (s *Store) ListHistoryForItem(ctx context.Context, itemID string) ([]*domain.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+historyColumns+`
		FROM upload_history
		WHERE item_id = ?
		ORDER BY created_at DESC, id DESC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHistory(rows)
}

// CountHistory returns the total number of history entries.
func (s *Store) CountHistory(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM upload_history`).Scan(&count)
	return count, err
}

// PruneHistory deletes all but the newest keep entries and returns how
// many were removed.
func (s *Store) PruneHistory(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM upload_history
		WHERE id NOT IN (
			SELECT id FROM upload_history
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)`, keep)
	if err != nil {
		return 0, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Debug("pruned history entries", "removed", removed, "kept", keep)
	}
	return int(removed), nil
}

func collectHistory(rows *sql.Rows) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
