package ingest_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/ingest"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// memoryCheckpoints is an in-memory checkpoint store
type memoryCheckpoints struct {
	mu       sync.Mutex
	values   map[string]string
	advances int
}

func newMemoryCheckpoints() *memoryCheckpoints {
	return &memoryCheckpoints{values: make(map[string]string)}
}

func checkpointKey(kind domain.SourceKind, name string) string {
	return kind.String() + ":" + name
}

func (m *memoryCheckpoints) GetCheckpoint(ctx context.Context, kind domain.SourceKind, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[checkpointKey(kind, name)]
	return v, ok, nil
}

func (m *memoryCheckpoints) AdvanceCheckpoint(ctx context.Context, kind domain.SourceKind, name string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[checkpointKey(kind, name)] = value
	m.advances++
	return nil
}

func (m *memoryCheckpoints) get(kind domain.SourceKind, name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[checkpointKey(kind, name)]
	return v, ok
}

// fakeTable answers the relational source's statements from an in-memory id list
type fakeTable struct {
	ids        []int64
	statements []string
	err        error
}

func (t *fakeTable) insert(ids ...int64) {
	t.ids = append(t.ids, ids...)
}

func (t *fakeTable) Query(ctx context.Context, stmt string, args ...any) ([]store.Row, error) {
	t.statements = append(t.statements, stmt)
	if t.err != nil {
		return nil, t.err
	}

	after := int64(-1)
	var limit int
	switch len(args) {
	case 1:
		limit = args[0].(int)
	case 2:
		after = args[0].(int64)
		limit = args[1].(int)
	default:
		return nil, errors.New("unexpected argument count")
	}
	if !strings.Contains(stmt, "ORDER BY `id` ASC") {
		return nil, errors.New("unexpected statement: " + stmt)
	}

	sorted := slices.Clone(t.ids)
	slices.Sort(sorted)

	var rows []store.Row
	for _, id := range sorted {
		if id <= after {
			continue
		}
		if len(rows) == limit {
			break
		}
		rows = append(rows, store.Row{"id": id, "text": "tweet"})
	}
	return rows, nil
}

func recordIDs(records []ingest.Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}
