package database

import (
	"fmt"
	"time"
)

var _ SeenRepository = (*SeenStore)(nil)

type SeenStore struct {
	db *DB
}

func NewSeenRepository(db *DB) *SeenStore {
	return &SeenStore{db: db}
}

func (r *SeenStore) HasSeen(clientID, dealID string) (bool, error) {
	var exists int
	err := r.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM seen_deals WHERE client_id = ? AND deal_id = ?
		)
	`, clientID, dealID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check seen deal: %w", err)
	}

	return exists == 1, nil
}

// MarkSeen stores dealIDs for clientID and returns how many were new.
// Ids already recorded keep their original timestamp.
func (r *SeenStore) MarkSeen(clientID string, dealIDs ...string) (int, error) {
	if len(dealIDs) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO seen_deals (client_id, deal_id, seen_at)
		VALUES (?, ?, ?)
		ON CONFLICT (client_id, deal_id) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	inserted := 0
	for _, dealID := range dealIDs {
		result, err := stmt.Exec(clientID, dealID, now)
		if err != nil {
			return 0, fmt.Errorf("failed to mark deal %s as seen: %w", dealID, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

func (r *SeenStore) GetSeen(clientID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT deal_id FROM seen_deals
		WHERE client_id = ?
		ORDER BY seen_at DESC, deal_id
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seen deals: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan seen deal: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seen deals: %w", err)
	}

	return ids, nil
}

// Prune deletes records older than before across all clients.
func (r *SeenStore) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM seen_deals WHERE seen_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune seen deals: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}

	return deleted, nil
}
