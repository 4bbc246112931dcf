package ingest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// DEFAULT_ID_FIELD is the ordinal column of relational sources and the key of document sources
const DEFAULT_ID_FIELD = "id"

// Querier runs a read statement against the relational store
type Querier interface {
	Query(ctx context.Context, stmt string, args ...any) ([]store.Row, error)
}

// RelationalSource polls a table by its auto-increment id
type RelationalSource struct {
	querier Querier
	table   string
	idField string
	stmt    string
	initial string
}

// NewRelationalSource creates a source over table. The id column defaults to "id".
func NewRelationalSource(querier Querier, table string, idField string) (*RelationalSource, error) {
	if idField == "" {
		idField = DEFAULT_ID_FIELD
	}

	quotedTable, err := quoteIdentifier(table)
	if err != nil {
		return nil, err
	}
	quotedID, err := quoteIdentifier(idField)
	if err != nil {
		return nil, err
	}

	return &RelationalSource{
		querier: querier,
		table:   table,
		idField: idField,
		// the n smallest ids above the checkpoint, so no pending row is skipped
		stmt:    fmt.Sprintf("SELECT * FROM %s WHERE %s > ? ORDER BY %s ASC LIMIT ?", quotedTable, quotedID, quotedID),
		initial: fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC LIMIT ?", quotedTable, quotedID),
	}, nil
}

func (s *RelationalSource) Kind() domain.SourceKind {
	return domain.SourceKindRelational
}

func (s *RelationalSource) Name() string {
	return s.table
}

// FetchSince returns rows with id > checkpoint in ascending id order
func (s *RelationalSource) FetchSince(ctx context.Context, checkpoint string, limit int) ([]Record, error) {
	var (
		rows []store.Row
		err  error
	)

	if checkpoint == "" {
		rows, err = s.querier.Query(ctx, s.initial, limit)
	} else {
		lastID, parseErr := strconv.ParseInt(checkpoint, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %s checkpoint %q is not numeric", domain.ErrInvalidCheckpoint, s.table, checkpoint)
		}
		rows, err = s.querier.Query(ctx, s.stmt, lastID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", s.table, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		id, ok := row.Int64(s.idField)
		if !ok {
			return nil, fmt.Errorf("row in %s has no numeric %s", s.table, s.idField)
		}
		records = append(records, Record{ID: strconv.FormatInt(id, 10), Fields: row})
	}

	return records, nil
}
