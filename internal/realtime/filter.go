package realtime

import "civicpulse/backend/internal/models"

// Scope selects which slice of the complaint stream a subscriber sees.
type Scope string

const (
	// ScopeAll delivers every change event (public feed, map view).
	ScopeAll Scope = "all"
	// ScopeOwn delivers events for complaints the subscriber reported.
	ScopeOwn Scope = "own"
	// ScopeDepartment delivers events for one department's complaints.
	ScopeDepartment Scope = "department"
)

// Filter is the subscription predicate. UserID backs ScopeOwn and
// Department backs ScopeDepartment.
type Filter struct {
	Scope      Scope
	UserID     string
	Department string
}

// Matches reports whether the event passes the filter.
func (f Filter) Matches(event models.ChangeEvent) bool {
	switch f.Scope {
	case ScopeAll:
		return true
	case ScopeOwn:
		return f.UserID != "" &&
			event.Record.ReporterID != nil &&
			*event.Record.ReporterID == f.UserID
	case ScopeDepartment:
		return f.Department != "" &&
			event.Record.AssignedDepartment != nil &&
			*event.Record.AssignedDepartment == f.Department
	}
	return false
}
