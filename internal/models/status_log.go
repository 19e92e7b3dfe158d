package models

import "time"

// StatusLogEntry is one row of the append-only audit trail. Every
// accepted status mutation writes exactly one entry; nothing ever
// updates or deletes rows in this table.
type StatusLogEntry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ComplaintID string `gorm:"type:text;not null;index" json:"complaint_id"`
	// OldStatus is nil for the implicit Pending set at creation time.
	OldStatus *Status   `gorm:"type:text" json:"old_status"`
	NewStatus Status    `gorm:"type:text;not null" json:"new_status"`
	ChangedBy string    `gorm:"type:text;not null" json:"changed_by"`
	ChangedAt time.Time `gorm:"autoCreateTime" json:"changed_at"`
}
