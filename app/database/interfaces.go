package database

import (
	"time"
)

// SeenRepository records which deal ids a client has already displayed.
type SeenRepository interface {
	HasSeen(clientID, dealID string) (bool, error)
	MarkSeen(clientID string, dealIDs ...string) (int, error)
	GetSeen(clientID string) ([]string, error)
	Prune(before time.Time) (int64, error)
}
