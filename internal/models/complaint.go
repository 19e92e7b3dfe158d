package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority is the urgency bucket assigned to a complaint at intake.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Status is the lifecycle state of a complaint. Transitions only move
// forward (Pending -> InProgress -> Resolved); Resolved is terminal.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusResolved   Status = "Resolved"
)

// Order returns the position of the status in the lifecycle, or -1 for
// an unrecognized value.
func (s Status) Order() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusResolved:
		return 2
	}
	return -1
}

// Complaint represents a reported civic issue.
// Status is mutated only by the status manager, UpvoteCount only by the
// vote registry; AssignedDepartment is fixed at creation.
type Complaint struct {
	ID string `gorm:"primaryKey" json:"id"`
	// ReporterID is nil for anonymous submissions.
	ReporterID   *string `gorm:"index" json:"reporter_id"`
	IssueType    string  `gorm:"type:text;not null" json:"issue_type"`
	Description  string  `gorm:"type:text;not null" json:"description"`
	LocationText string  `gorm:"type:text" json:"location_text"`
	// Latitude/Longitude are always written as a pair; (0,0) is the
	// sentinel for "location unavailable".
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Priority           Priority  `gorm:"type:text;not null" json:"priority"`
	AssignedDepartment *string   `gorm:"type:text" json:"assigned_department"`
	Status             Status    `gorm:"type:text;not null;index" json:"status"`
	ImageURL           *string   `gorm:"type:text" json:"image_url"`
	UpvoteCount        int       `gorm:"not null;default:0" json:"upvote_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// BeforeCreate generates a new UUID for the complaint if the ID is not
// already set.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
