package tasks

import (
	"context"

	"github.com/feral-file/ff-project-intel/internal/aggregator"
)

// Task defines one scheduled job.
// The scheduler runs at most one Run per task at a time.
//
//go:generate mockgen -source=task.go -destination=../mocks/task.go -package=mocks -mock_names=Task=MockTask,ProjectLookup=MockProjectLookup
type Task interface {
	// Name returns the task's name for logging and identification
	Name() string

	// Run performs one tick of the task. Returned errors are logged by the scheduler.
	Run(ctx context.Context) error
}

// ProjectLookup resolves project mentions against the knowledge base
type ProjectLookup interface {
	ProjectTags(ctx context.Context, projects []string, tokens []string) ([]aggregator.ProjectTags, error)
}
