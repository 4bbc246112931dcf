package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/store/schema"
)

// CheckpointStore persists the last processed identifier per polled source
//
//go:generate mockgen -source=checkpoint_store.go -destination=../mocks/checkpoint_store.go -package=mocks -mock_names=CheckpointStore=MockCheckpointStore
type CheckpointStore interface {
	// GetCheckpoint returns the last processed identifier for a source; found is false when none is stored
	GetCheckpoint(ctx context.Context, kind domain.SourceKind, name string) (value string, found bool, err error)
	// AdvanceCheckpoint stores value as the last processed identifier for a source
	AdvanceCheckpoint(ctx context.Context, kind domain.SourceKind, name string, value string) error
}

type checkpointStore struct {
	manager *Manager
	clock   adapter.Clock
}

// NewCheckpointStore creates a checkpoint store backed by the extracted_record table
func NewCheckpointStore(manager *Manager, clock adapter.Clock) CheckpointStore {
	return &checkpointStore{manager: manager, clock: clock}
}

// GetCheckpoint returns the last processed identifier for a source
func (s *checkpointStore) GetCheckpoint(ctx context.Context, kind domain.SourceKind, name string) (string, bool, error) {
	var record schema.ExtractedRecord
	err := s.manager.Do(ctx, func(db *gorm.DB) error {
		return db.Where("source_type = ? AND source_name = ?", kind.String(), name).
			Take(&record).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get checkpoint for %s:%s: %w", kind, name, err)
	}

	return record.LastID, true, nil
}

// AdvanceCheckpoint upserts the checkpoint row. An update only touches last_id and updated_at.
func (s *checkpointStore) AdvanceCheckpoint(ctx context.Context, kind domain.SourceKind, name string, value string) error {
	if value == "" {
		return fmt.Errorf("%w: empty checkpoint for %s:%s", domain.ErrInvalidCheckpoint, kind, name)
	}

	now := s.clock.Now().Unix()
	record := schema.ExtractedRecord{
		SourceType: kind.String(),
		SourceName: name,
		LastID:     value,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.manager.Do(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_type"}, {Name: "source_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_id", "updated_at"}),
		}).Create(&record).Error
	})
	if err != nil {
		return fmt.Errorf("failed to advance checkpoint for %s:%s: %w", kind, name, err)
	}

	return nil
}
