package models

import "time"

// WatchHistoryEntry is an append-only record of a watched episode.
// Entries are never mutated or deleted except when the owning show is
// removed, and repeated marks of the same episode produce separate rows.
type WatchHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ShowID    uint      `gorm:"not null;index" json:"show_id"`
	Season    int       `gorm:"not null" json:"season"`
	Episode   int       `gorm:"not null" json:"episode"`
	WatchedAt time.Time `gorm:"not null" json:"watched_at"`
}

// TableName specifies the table name for WatchHistoryEntry
func (WatchHistoryEntry) TableName() string {
	return "watch_history"
}
