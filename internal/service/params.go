package service

import (
	"time"

	"eventlog/internal/models"
)

// RangeFilter bounds the typed queries. Both ends are exclusive; a nil
// end is open.
type RangeFilter struct {
	After  *time.Time
	Before *time.Time
}

// Stats is the summary returned by StatsService.Stats.
type Stats struct {
	UniqueIPs    int            `json:"unique_ips"`
	Users        int            `json:"users"`
	EventKinds   int            `json:"event_kinds"`
	LoggedUsers  []string       `json:"logged_users"`
	FailedEvents []models.Event `json:"failed_events"`
	ErrorEvents  []models.Event `json:"error_events"`
}

// LoadConfig tells the loader where records come from.
type LoadConfig struct {
	Dir            string
	Pattern        string
	Workers        int
	ArchiveEnabled bool // read the SQLite archive instead of Dir
}
