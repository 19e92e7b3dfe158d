package votes_test

import (
	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage implements storage.Storage for registry tests.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaint(c *models.Complaint) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if c, ok := args.Get(0).(*models.Complaint); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListComplaints(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ApplyStatusChange(c *models.Complaint, newStatus models.Status, actorID string) error {
	args := m.Called(c, newStatus, actorID)
	return args.Error(0)
}

func (m *MockStorage) ListStatusLog(complaintID string) ([]models.StatusLogEntry, error) {
	args := m.Called(complaintID)
	return args.Get(0).([]models.StatusLogEntry), args.Error(1)
}

func (m *MockStorage) CreateUpvote(complaintID, userID string) error {
	args := m.Called(complaintID, userID)
	return args.Error(0)
}

func (m *MockStorage) IncrementUpvoteCount(complaintID string) (int, error) {
	args := m.Called(complaintID)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) CountUpvotes(complaintID string) (int64, error) {
	args := m.Called(complaintID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) SetUpvoteCount(complaintID string, count int) error {
	args := m.Called(complaintID, count)
	return args.Error(0)
}

func (m *MockStorage) GetProfile(userID string) (*models.Profile, error) {
	args := m.Called(userID)
	if p, ok := args.Get(0).(*models.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) PublishEvent(event models.ChangeEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

