package votes_test

import (
	"context"
	"errors"
	"testing"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/identity"
	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/storage"
	"civicpulse/backend/internal/votes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func voter(id string) *identity.Identity {
	return &identity.Identity{UserID: id, Role: models.RoleCitizen}
}

func TestRegister_Success(t *testing.T) {
	storageMock := new(MockStorage)
	registry := votes.NewRegistry(storageMock)

	storageMock.On("GetComplaintByID", "c1").Return(&models.Complaint{ID: "c1", UpvoteCount: 4}, nil)
	storageMock.On("CreateUpvote", "c1", "user-1").Return(nil)
	storageMock.On("IncrementUpvoteCount", "c1").Return(5, nil)
	storageMock.On("PublishEvent", mock.Anything).Return(nil)

	count, err := registry.Register(context.Background(), "c1", voter("user-1"))

	assert.NoError(t, err)
	assert.Equal(t, 5, count)
	storageMock.AssertCalled(t, "PublishEvent", mock.MatchedBy(func(e models.ChangeEvent) bool {
		return e.Type == models.EventUpdate && e.Record.UpvoteCount == 5
	}))
}

func TestRegister_AnonymousRejectedBeforeStorage(t *testing.T) {
	storageMock := new(MockStorage)
	registry := votes.NewRegistry(storageMock)

	_, err := registry.Register(context.Background(), "c1", identity.Anonymous())

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	storageMock.AssertNotCalled(t, "GetComplaintByID", mock.Anything)
	storageMock.AssertNotCalled(t, "CreateUpvote", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateKeepsCount(t *testing.T) {
	storageMock := new(MockStorage)
	registry := votes.NewRegistry(storageMock)

	storageMock.On("GetComplaintByID", "c1").Return(&models.Complaint{ID: "c1", UpvoteCount: 7}, nil)
	storageMock.On("CreateUpvote", "c1", "user-1").Return(storage.ErrDuplicateVote)

	count, err := registry.Register(context.Background(), "c1", voter("user-1"))

	assert.ErrorIs(t, err, apperrors.ErrAlreadyVoted)
	assert.Equal(t, 7, count)
	storageMock.AssertNotCalled(t, "IncrementUpvoteCount", mock.Anything)
}

func TestRegister_MissingComplaint(t *testing.T) {
	storageMock := new(MockStorage)
	registry := votes.NewRegistry(storageMock)

	storageMock.On("GetComplaintByID", "nope").Return(nil, storage.ErrRecordNotFound)

	_, err := registry.Register(context.Background(), "nope", voter("user-1"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// The vote row is the source of truth; a failed aggregate bump is
// tolerated and repaired by the recount tool later.
func TestRegister_CountUpdateFailureTolerated(t *testing.T) {
	storageMock := new(MockStorage)
	registry := votes.NewRegistry(storageMock)

	storageMock.On("GetComplaintByID", "c1").Return(&models.Complaint{ID: "c1", UpvoteCount: 2}, nil)
	storageMock.On("CreateUpvote", "c1", "user-1").Return(nil)
	storageMock.On("IncrementUpvoteCount", "c1").Return(0, errors.New("deadlock"))

	count, err := registry.Register(context.Background(), "c1", voter("user-1"))

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	storageMock.AssertNotCalled(t, "PublishEvent", mock.Anything)
}

func TestRegister_PublishFailureNonFatal(t *testing.T) {
	storageMock := new(MockStorage)
	registry := votes.NewRegistry(storageMock)

	storageMock.On("GetComplaintByID", "c1").Return(&models.Complaint{ID: "c1"}, nil)
	storageMock.On("CreateUpvote", "c1", "user-1").Return(nil)
	storageMock.On("IncrementUpvoteCount", "c1").Return(1, nil)
	storageMock.On("PublishEvent", mock.Anything).Return(errors.New("redis gone"))

	count, err := registry.Register(context.Background(), "c1", voter("user-1"))

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
