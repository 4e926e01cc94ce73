package model

import "time"

// MediaItem is one uploaded attachment on a project. URL points at the
// hosted media store; Description is free text supplied at upload time.
type MediaItem struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Project represents a row in the `projects` table. UID is the short public
// identifier used in URLs; ID stays internal. ToolsUsed and URLs are stored
// as comma-separated text, Media as a JSON column.
type Project struct {
	ID            uint64
	UID           string
	UserID        uint64
	ProjectName   string
	Category      string
	DateAdded     time.Time
	ToolsUsed     []string
	ProjectStatus string // "Completed" | "In Progress"
	Media         []MediaItem
	URLs          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
