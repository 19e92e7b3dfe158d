// Package votes keeps the deduplicated citizen endorsements of a
// complaint. There is no un-vote: a registration is permanent.
package votes

import (
	"context"
	"errors"
	"log"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/identity"
	"civicpulse/backend/internal/metrics"
	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/storage"
)

// Registry enforces at-most-one vote per (complaint, user).
type Registry struct {
	Storage storage.Storage
}

func NewRegistry(s storage.Storage) *Registry {
	return &Registry{Storage: s}
}

// Register records a vote and returns the new aggregate count.
// Unauthenticated callers are rejected before any storage access.
// Duplicate votes return ErrAlreadyVoted without touching the count;
// uniqueness rests on the storage constraint, so concurrent duplicates
// across processes still resolve to exactly one success.
func (r *Registry) Register(ctx context.Context, complaintID string, voter *identity.Identity) (int, error) {
	if !voter.IsAuthenticated() {
		return 0, apperrors.ErrUnauthorized
	}

	complaint, err := r.Storage.GetComplaintByID(complaintID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return 0, apperrors.ErrNotFound
		}
		return 0, err
	}

	if err := r.Storage.CreateUpvote(complaintID, voter.UserID); err != nil {
		if errors.Is(err, storage.ErrDuplicateVote) {
			return complaint.UpvoteCount, apperrors.ErrAlreadyVoted
		}
		return 0, err
	}

	count, err := r.Storage.IncrementUpvoteCount(complaintID)
	if err != nil {
		// The vote row exists; the cached aggregate is now behind by
		// one until the next recount.
		log.Printf("WARNING: Vote recorded for %s but count update failed: %v", complaintID, err)
		return complaint.UpvoteCount, nil
	}

	metrics.UpvotesRegisteredTotal.Inc()

	complaint.UpvoteCount = count
	if err := r.Storage.PublishEvent(models.ChangeEvent{Type: models.EventUpdate, Record: *complaint}); err != nil {
		log.Printf("WARNING: Failed to publish vote update for %s: %v", complaintID, err)
	}

	return count, nil
}
