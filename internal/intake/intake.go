// Package intake turns a draft from any channel (form, chat, Telegram)
// into a persisted complaint: evidence upload, vision gate, priority
// mapping, geolocation, identity, routing, persistence, fan-out.
package intake

import (
	"context"
	"fmt"
	"log"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/config"
	"civicpulse/backend/internal/evidence"
	"civicpulse/backend/internal/extraction"
	"civicpulse/backend/internal/geo"
	"civicpulse/backend/internal/identity"
	"civicpulse/backend/internal/metrics"
	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/routing"
	"civicpulse/backend/internal/storage"
)

// Vision is the slice of the extraction service the pipeline needs.
type Vision interface {
	Analyze(ctx context.Context, imageURL string) (*extraction.VisionResult, error)
}

// Service orchestrates the intake pipeline.
type Service struct {
	Storage  storage.Storage
	Evidence evidence.Store
	Vision   Vision
	Geo      *geo.Resolver
}

func NewService(s storage.Storage, ev evidence.Store, vision Vision, resolver *geo.Resolver) *Service {
	return &Service{Storage: s, Evidence: ev, Vision: vision, Geo: resolver}
}

// Submit runs the full pipeline. On success the returned complaint is
// persisted with status Pending and zero votes. Failures surface as
// *apperrors.ValidationError or *apperrors.IngestionError; nothing is
// persisted on any failure path.
func (s *Service) Submit(ctx context.Context, draft models.ComplaintDraft, reporter *identity.Identity) (*models.Complaint, error) {
	if draft.Description == "" && draft.IssueType == "" && len(draft.ImageData) == 0 && draft.ImageURL == nil {
		return nil, &apperrors.ValidationError{Field: "description", Message: "is required"}
	}

	// Step 1: evidence upload. A failure here aborts before any record
	// exists; the caller may retry with the same bytes.
	imageURL := draft.ImageURL
	if len(draft.ImageData) > 0 {
		url, err := s.Evidence.Put(ctx, draft.ImageData, draft.ImageContentType)
		if err != nil {
			return nil, apperrors.Ingestion(apperrors.UploadFailed, "evidence upload failed", err)
		}
		imageURL = &url
	}

	// Step 2: vision gate. Rejection is fail-closed and terminal for
	// this submission (the uploaded evidence may stay orphaned); any
	// other vision failure is fail-open and we keep the caller's fields.
	issueType := draft.IssueType
	description := draft.Description
	locationText := draft.LocationText
	priority := normalizePriority(draft.Priority)

	if imageURL != nil {
		analysis, err := s.Vision.Analyze(ctx, *imageURL)
		switch {
		case err != nil:
			log.Printf("WARNING: Vision analysis unavailable, keeping manual fields: %v", err)
		case !analysis.IsCivicIssue:
			metrics.ComplaintsRejectedTotal.Inc()
			return nil, apperrors.Ingestion(apperrors.ContentRejected, analysis.RejectionReason, nil)
		default:
			if analysis.IssueType != "" {
				issueType = analysis.IssueType
			}
			if description == "" && analysis.Description != "" {
				description = analysis.Description
			}
			locationText = mergeLocation(locationText, analysis.LocationContext)
			priority = severityToPriority(analysis.Severity)
		}
	}

	// Step 3: coordinates and identity, both best-effort.
	var lat, lng float64
	if draft.Latitude != nil && draft.Longitude != nil {
		lat, lng = *draft.Latitude, *draft.Longitude
	} else {
		lat, lng = s.Geo.Resolve(ctx)
	}

	var reporterID *string
	if reporter.IsAuthenticated() {
		id := reporter.UserID
		reporterID = &id
	}

	// Step 4: classification + routing, decided once, immutable after.
	category := routing.Classify(issueType)

	complaint := &models.Complaint{
		ReporterID:         reporterID,
		IssueType:          category,
		Description:        description,
		LocationText:       locationText,
		Latitude:           lat,
		Longitude:          lng,
		Priority:           priority,
		AssignedDepartment: routing.Route(category),
		Status:             models.StatusPending,
		ImageURL:           imageURL,
		UpvoteCount:        0,
	}

	// Step 5: persist. No log entries exist for a record never created.
	if err := s.Storage.CreateComplaint(complaint); err != nil {
		return nil, apperrors.Ingestion(apperrors.PersistenceFailed, "", err)
	}

	metrics.ComplaintsSubmittedTotal.Inc()

	if err := s.Storage.PublishEvent(models.ChangeEvent{Type: models.EventInsert, Record: *complaint}); err != nil {
		log.Printf("WARNING: Failed to publish insert event for %s: %v", complaint.ID, err)
	}

	return complaint, nil
}

// severityToPriority buckets the 0..10 vision severity.
func severityToPriority(severity int) models.Priority {
	switch {
	case severity > config.HighSeverityThreshold:
		return models.PriorityHigh
	case severity > config.MediumSeverityThreshold:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// normalizePriority keeps a caller-supplied bucket, defaulting to Medium.
func normalizePriority(p models.Priority) models.Priority {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return p
	}
	return models.PriorityMedium
}

// mergeLocation concatenates the vision location context into the manual
// location parenthetically when both are present.
func mergeLocation(manual, context string) string {
	switch {
	case manual == "":
		return context
	case context == "":
		return manual
	default:
		return fmt.Sprintf("%s (%s)", manual, context)
	}
}
