package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"civicpulse/backend/internal/config"
	"civicpulse/backend/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrDuplicateVote is returned by CreateUpvote when the composite unique
// index rejects a second vote from the same user.
var ErrDuplicateVote = errors.New("duplicate vote")

// ErrRecordNotFound is returned when a referenced complaint is missing.
var ErrRecordNotFound = errors.New("record not found")

// ComplaintFilter narrows ListComplaints. Zero values mean "no filter".
type ComplaintFilter struct {
	Status     models.Status
	Department string
	ReporterID string
}

type Storage interface {
	CreateComplaint(complaint *models.Complaint) error
	GetComplaintByID(id string) (*models.Complaint, error)
	ListComplaints(filter ComplaintFilter) ([]models.Complaint, error)

	ApplyStatusChange(complaint *models.Complaint, newStatus models.Status, actorID string) error
	ListStatusLog(complaintID string) ([]models.StatusLogEntry, error)

	CreateUpvote(complaintID, userID string) error
	IncrementUpvoteCount(complaintID string) (int, error)
	CountUpvotes(complaintID string) (int64, error)
	SetUpvoteCount(complaintID string, count int) error

	GetProfile(userID string) (*models.Profile, error)

	PublishEvent(event models.ChangeEvent) error
}

// Service is the PostgreSQL + Redis implementation of Storage.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// Migrate creates all tables used by the backend.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Complaint{},
		&models.StatusLogEntry{},
		&models.Upvote{},
		&models.Profile{},
	)
}

func (s *Service) CreateComplaint(complaint *models.Complaint) error {
	if err := s.DB.Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to create complaint: %v", err)
		return err
	}
	return nil
}

func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.Where("id = ?", id).First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %s: %v", id, err)
		return nil, err
	}
	return &complaint, nil
}

func (s *Service) ListComplaints(filter ComplaintFilter) ([]models.Complaint, error) {
	var complaints []models.Complaint
	q := s.DB.Order("created_at desc")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		q = q.Where("assigned_department = ?", filter.Department)
	}
	if filter.ReporterID != "" {
		q = q.Where("reporter_id = ?", filter.ReporterID)
	}
	if err := q.Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// ApplyStatusChange updates the complaint status and appends the audit
// entry in a single transaction, so an accepted change never commits
// without its log row. The caller has already validated the transition.
func (s *Service) ApplyStatusChange(complaint *models.Complaint, newStatus models.Status, actorID string) error {
	oldStatus := complaint.Status
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Complaint{}).
			Where("id = ?", complaint.ID).
			Update("status", newStatus).Error; err != nil {
			return err
		}

		entry := models.StatusLogEntry{
			ComplaintID: complaint.ID,
			OldStatus:   &oldStatus,
			NewStatus:   newStatus,
			ChangedBy:   actorID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		log.Printf("ERROR: Failed to apply status change for %s: %v", complaint.ID, err)
		return err
	}

	complaint.Status = newStatus
	return nil
}

func (s *Service) ListStatusLog(complaintID string) ([]models.StatusLogEntry, error) {
	var entries []models.StatusLogEntry
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("changed_at asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateUpvote inserts the vote row. Deduplication is delegated to the
// composite unique index so concurrent duplicates across processes
// resolve to exactly one winner.
func (s *Service) CreateUpvote(complaintID, userID string) error {
	vote := models.Upvote{ComplaintID: complaintID, UserID: userID}
	err := s.DB.Create(&vote).Error
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateVote
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateVote
	}
	log.Printf("ERROR: Failed to create upvote for %s: %v", complaintID, err)
	return err
}

// IncrementUpvoteCount bumps the cached aggregate atomically in the
// database and returns the new value.
func (s *Service) IncrementUpvoteCount(complaintID string) (int, error) {
	err := s.DB.Model(&models.Complaint{}).
		Where("id = ?", complaintID).
		Update("upvote_count", gorm.Expr("upvote_count + 1")).Error
	if err != nil {
		log.Printf("ERROR: Failed to increment upvote count for %s: %v", complaintID, err)
		return 0, err
	}

	var complaint models.Complaint
	if err := s.DB.Select("upvote_count").Where("id = ?", complaintID).First(&complaint).Error; err != nil {
		return 0, err
	}
	return complaint.UpvoteCount, nil
}

// CountUpvotes recomputes the true aggregate from the vote rows. Used by
// the admin repair tool; the cached upvote_count can always be rebuilt
// from this.
func (s *Service) CountUpvotes(complaintID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Upvote{}).
		Where("complaint_id = ?", complaintID).
		Count(&count).Error
	return count, err
}

func (s *Service) SetUpvoteCount(complaintID string, count int) error {
	return s.DB.Model(&models.Complaint{}).
		Where("id = ?", complaintID).
		Update("upvote_count", count).Error
}

func (s *Service) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// PublishEvent pushes a change event into Redis Pub/Sub. Delivery to
// subscribers is best-effort, at-most-once.
func (s *Service) PublishEvent(event models.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(s.Ctx, config.EventChannel, string(payload)).Err(); err != nil {
		log.Printf("ERROR: Failed to publish %s event for %s: %v", event.Type, event.Record.ID, err)
		return err
	}
	return nil
}

// SubscribeEvents opens a Redis subscription on the change-event channel.
// The realtime hub consumes it; callers own the returned PubSub.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.EventChannel)
}
