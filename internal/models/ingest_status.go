package models

import "time"

// IngestStatus is the snapshot of the most recent log load.
type IngestStatus struct {
	ID           int       `json:"id"`
	Source       string    `json:"source"`        // directory or archive path
	Files        int       `json:"files"`         // files read
	Records      int       `json:"records"`       // records published
	SkippedLines int       `json:"skipped_lines"` // lines that failed to decode
	LoadedAt     time.Time `json:"loaded_at"`
}
