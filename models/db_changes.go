package models

import (
	"time"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// DBChange is written in the same transaction as every record mutation and
// drained by the change monitor.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	Kind       string    `gorm:"type:varchar(30);not null;index:idx_kind_action"`
	RecordKey  string    `gorm:"type:varchar(50);not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_kind_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}

func (DBChange) TableName() string {
	return "db_changes"
}
