package ingest

import (
	"context"
	"fmt"
	"regexp"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// Record is one row or document delivered by a source.
// ID is the value the checkpoint advances to once the record's batch is handled.
type Record struct {
	ID     string
	Fields store.Row
}

// Source fetches records strictly after a checkpoint, oldest first
//
//go:generate mockgen -source=source.go -destination=../mocks/ingest_source.go -package=mocks -mock_names=Source=MockSource
type Source interface {
	// Kind returns the store kind the source lives in
	Kind() domain.SourceKind
	// Name returns the table or collection name used as the checkpoint key
	Name() string
	// FetchSince returns at most limit records whose id is greater than checkpoint, ascending.
	// An empty checkpoint means no lower bound.
	FetchSince(ctx context.Context, checkpoint string, limit int) ([]Record, error)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// quoteIdentifier quotes a configured table or column name for interpolation into SQL
func quoteIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return "`" + name + "`", nil
}
