package models

// Role distinguishes citizens from department officers.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleOfficer Role = "officer"
)

// Profile is a read-only projection of an account. The backend never
// creates or mutates profiles; they are seeded by the auth system.
type Profile struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Role Role   `gorm:"type:text;not null" json:"role"`
	// Department is set for officers only.
	Department *string `gorm:"type:text" json:"department"`
	Email      string  `gorm:"type:text" json:"email"`
	FullName   string  `gorm:"type:text" json:"full_name"`
}
