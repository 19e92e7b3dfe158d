// Package status owns the complaint state machine and its audit trail.
package status

import (
	"context"
	"errors"
	"log"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/identity"
	"civicpulse/backend/internal/metrics"
	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/notify"
	"civicpulse/backend/internal/storage"
)

// Manager validates and applies status transitions.
type Manager struct {
	Storage  storage.Storage
	Notifier notify.Dispatcher
}

func NewManager(s storage.Storage, n notify.Dispatcher) *Manager {
	return &Manager{Storage: s, Notifier: n}
}

// Result is the synchronous answer to a transition command. Warning is
// set when the transition committed but a follow-up (notification)
// failed; callers reconcile their provisional state from Complaint.
type Result struct {
	Complaint *models.Complaint
	Warning   string
}

// Transition moves a complaint forward through Pending -> InProgress ->
// Resolved. Only officers may call it. The status update and its audit
// entry commit as one transaction; racing officers may overwrite each
// other's final status (last write wins) but each accepted call writes
// its own log entry.
func (m *Manager) Transition(ctx context.Context, complaintID string, newStatus models.Status, actor *identity.Identity) (*Result, error) {
	if !actor.IsAuthenticated() || !actor.IsOfficer() {
		return nil, apperrors.ErrUnauthorized
	}
	if newStatus.Order() < 0 {
		return nil, apperrors.ErrInvalidTransition
	}

	complaint, err := m.Storage.GetComplaintByID(complaintID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	// Forward-only: Resolved is terminal and repeating the current
	// status is rejected too.
	if newStatus.Order() <= complaint.Status.Order() {
		return nil, apperrors.ErrInvalidTransition
	}

	if err := m.Storage.ApplyStatusChange(complaint, newStatus, actor.UserID); err != nil {
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(newStatus)).Inc()

	result := &Result{Complaint: complaint}

	if err := m.Storage.PublishEvent(models.ChangeEvent{Type: models.EventUpdate, Record: *complaint}); err != nil {
		log.Printf("WARNING: Failed to publish status update for %s: %v", complaintID, err)
	}

	if newStatus == models.StatusResolved {
		if warn := m.sendResolutionNotice(ctx, complaint); warn != "" {
			result.Warning = warn
		}
	}

	return result, nil
}

// sendResolutionNotice is fire-and-forget: a failure is reduced to a
// warning string and never unwinds the committed transition.
func (m *Manager) sendResolutionNotice(ctx context.Context, complaint *models.Complaint) string {
	if complaint.ReporterID == nil {
		return ""
	}

	profile, err := m.Storage.GetProfile(*complaint.ReporterID)
	if err != nil || profile.Email == "" {
		log.Printf("INFO: No reachable recipient for resolution notice on %s", complaint.ID)
		return ""
	}

	notice := notify.Notice{
		ComplaintID: complaint.ID,
		Recipient:   profile.Email,
		FullName:    profile.FullName,
		Summary:     notify.Summary(complaint.IssueType, complaint.Description),
	}
	if err := m.Notifier.ResolutionNotice(ctx, notice); err != nil {
		log.Printf("ERROR: Resolution notice for %s failed: %v", complaint.ID, err)
		return "status updated but resolution notification could not be delivered"
	}
	return ""
}
