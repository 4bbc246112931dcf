package store

import (
	"github.com/feral-file/ff-project-intel/internal/adapter"
)

// Stores bundles the stores built over one manager
type Stores struct {
	Checkpoints CheckpointStore
	Projects    ProjectStore
	Snapshots   SnapshotStore
	Structured  StructuredStore
}

// NewStores creates every store over manager
func NewStores(manager *Manager, clock adapter.Clock, kolTweetsTable string) *Stores {
	return &Stores{
		Checkpoints: NewCheckpointStore(manager, clock),
		Projects:    NewProjectStore(manager),
		Snapshots:   NewSnapshotStore(manager, clock),
		Structured:  NewStructuredStore(manager, kolTweetsTable),
	}
}
