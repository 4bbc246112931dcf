package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/store/schema"
)

// StructuredStore writes enriched output rows and reads them back for reports
//
//go:generate mockgen -source=structured_store.go -destination=../mocks/structured_store.go -package=mocks -mock_names=StructuredStore=MockStructuredStore
type StructuredStore interface {
	// UpsertStructuredMsg inserts or overwrites a structured message on its source key
	UpsertStructuredMsg(ctx context.Context, msg *schema.StructuredMsg) error
	// UpsertStructuredKOLTweet inserts or overwrites a structured KOL tweet on its source id
	UpsertStructuredKOLTweet(ctx context.Context, tweet *schema.StructuredKOLTweet) error
	// CreateKOLTweetSummary stores one hourly summary
	CreateKOLTweetSummary(ctx context.Context, summary *schema.KOLTweetSummary) error
	// GetKOLTweetsBetween returns KOL tweets with start <= tweet_date < end, oldest first
	GetKOLTweetsBetween(ctx context.Context, start, end time.Time) ([]schema.KOLTweet, error)
	// GetStructuredKOLTweetTags returns the tags column of structured KOL tweets created in [start, end)
	GetStructuredKOLTweetTags(ctx context.Context, start, end time.Time) ([]datatypes.JSON, error)
}

type structuredStore struct {
	manager        *Manager
	kolTweetsTable string
}

// NewStructuredStore creates a structured store. An empty table name selects kol_tweets.
func NewStructuredStore(manager *Manager, kolTweetsTable string) StructuredStore {
	if kolTweetsTable == "" {
		kolTweetsTable = domain.DEFAULT_KOL_TWEETS_TABLE
	}
	return &structuredStore{manager: manager, kolTweetsTable: kolTweetsTable}
}

func (s *structuredStore) UpsertStructuredMsg(ctx context.Context, msg *schema.StructuredMsg) error {
	err := s.manager.Do(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "source_type"}, {Name: "source_db"}, {Name: "source_name"}, {Name: "source_id"},
			},
			UpdateAll: true,
		}).Create(msg).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert structured message %s/%s: %w", msg.SourceName, msg.SourceID, err)
	}

	return nil
}

func (s *structuredStore) UpsertStructuredKOLTweet(ctx context.Context, tweet *schema.StructuredKOLTweet) error {
	err := s.manager.Do(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}},
			UpdateAll: true,
		}).Create(tweet).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert structured kol tweet %s: %w", tweet.SourceID, err)
	}

	return nil
}

func (s *structuredStore) CreateKOLTweetSummary(ctx context.Context, summary *schema.KOLTweetSummary) error {
	err := s.manager.Do(ctx, func(db *gorm.DB) error {
		return db.Create(summary).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create kol tweet summary: %w", err)
	}

	return nil
}

func (s *structuredStore) GetKOLTweetsBetween(ctx context.Context, start, end time.Time) ([]schema.KOLTweet, error) {
	var tweets []schema.KOLTweet
	err := s.manager.Do(ctx, func(db *gorm.DB) error {
		tweets = nil
		return db.Table(s.kolTweetsTable).
			Where("tweet_date >= ? AND tweet_date < ?", start.Unix(), end.Unix()).
			Order("tweet_date ASC, id ASC").
			Find(&tweets).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get kol tweets: %w", err)
	}

	return tweets, nil
}

func (s *structuredStore) GetStructuredKOLTweetTags(ctx context.Context, start, end time.Time) ([]datatypes.JSON, error) {
	var tags []datatypes.JSON
	err := s.manager.Do(ctx, func(db *gorm.DB) error {
		tags = nil
		return db.Model(&schema.StructuredKOLTweet{}).
			Where("created_at >= ? AND created_at < ? AND tags IS NOT NULL", start.Unix(), end.Unix()).
			Order("id ASC").
			Pluck("tags", &tags).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get structured kol tweet tags: %w", err)
	}

	return tags, nil
}
