package models

import "time"

// Upvote records one citizen's endorsement of a complaint. The composite
// unique index is the storage-level guarantee that concurrent duplicate
// votes from the same user resolve to exactly one row.
type Upvote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID string    `gorm:"type:text;not null;uniqueIndex:idx_complaint_user_vote" json:"complaint_id"`
	UserID      string    `gorm:"type:text;not null;uniqueIndex:idx_complaint_user_vote" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
