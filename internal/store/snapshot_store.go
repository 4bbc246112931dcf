package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/domain"
)

// SnapshotStore reads closed governance proposals from the document store
//
//go:generate mockgen -source=snapshot_store.go -destination=../mocks/snapshot_store.go -package=mocks -mock_names=SnapshotStore=MockSnapshotStore
type SnapshotStore interface {
	// GetRecentSnapshots returns the most recent finalized proposals across the spaces, grouped by space name
	GetRecentSnapshots(ctx context.Context, spaceNames []string, limit int) (map[string][]bson.M, error)
}

type mongoSnapshotStore struct {
	manager *Manager
	clock   adapter.Clock
}

// NewSnapshotStore creates a snapshot store over the document store
func NewSnapshotStore(manager *Manager, clock adapter.Clock) SnapshotStore {
	return &mongoSnapshotStore{manager: manager, clock: clock}
}

func (s *mongoSnapshotStore) GetRecentSnapshots(ctx context.Context, spaceNames []string, limit int) (map[string][]bson.M, error) {
	if len(spaceNames) == 0 {
		return map[string][]bson.M{}, nil
	}

	filter := bson.M{
		"space.name":  bson.M{"$in": spaceNames},
		"end":         bson.M{"$lt": s.clock.Now().Unix()},
		"scoresState": domain.SNAPSHOT_SCORES,
		"state":       domain.SNAPSHOT_STATE,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "end", Value: -1}}).
		SetLimit(int64(limit))

	docs, err := s.manager.Find(ctx, domain.SNAPSHOT_DATABASE, domain.SNAPSHOT_COLLECTION, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}

	grouped := make(map[string][]bson.M)
	for _, doc := range docs {
		name := spaceName(doc)
		if name == "" {
			continue
		}
		grouped[name] = append(grouped[name], doc)
	}

	return grouped, nil
}

func spaceName(doc bson.M) string {
	switch space := doc["space"].(type) {
	case bson.M:
		name, _ := space["name"].(string)
		return name
	case bson.D:
		for _, e := range space {
			if e.Key == "name" {
				name, _ := e.Value.(string)
				return name
			}
		}
	}
	return ""
}
