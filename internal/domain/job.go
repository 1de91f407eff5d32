package domain

import (
	"time"
)

// Defaults applied when an employer leaves the field empty, matching the
// storage-level defaults.
const (
	DefaultCompany  = "Freelance"
	DefaultCategory = "Technology"
)

type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary,omitempty"`
	Company     string    `json:"company"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     int64     `json:"ownerId"`
}

// JobFilters narrows a job listing. Empty fields impose no constraint; both
// fields are case-insensitive substring matches combined with AND.
type JobFilters struct {
	Category string
	Location string
}
