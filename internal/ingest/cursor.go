package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/logger"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// Handler processes one ordered batch. A returned error keeps the checkpoint where it was
// so the same batch is delivered again on the next poll.
type Handler func(ctx context.Context, records []Record) error

// PollResult describes one poll of a cursor
type PollResult struct {
	// Checkpoint is the stored checkpoint after the poll; empty when none exists yet
	Checkpoint string
	// Delivered is the number of records handed to the handler
	Delivered int
	// Advanced reports whether the checkpoint moved
	Advanced bool
	// HandlerErr is the handler failure, if any
	HandlerErr error
}

// Cursor delivers new records of one source to a handler at least once, in ascending id order
type Cursor struct {
	source      Source
	checkpoints store.CheckpointStore
	handler     Handler
	batchLimit  int
}

// NewCursor creates a cursor over source
func NewCursor(source Source, checkpoints store.CheckpointStore, batchLimit int, handler Handler) (*Cursor, error) {
	if batchLimit <= 0 {
		return nil, fmt.Errorf("batch limit must be positive, got %d", batchLimit)
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}

	return &Cursor{
		source:      source,
		checkpoints: checkpoints,
		handler:     handler,
		batchLimit:  batchLimit,
	}, nil
}

// Source returns the polled source
func (c *Cursor) Source() Source {
	return c.source
}

// Poll loads the checkpoint, fetches the next batch, delivers it and advances the checkpoint
// to the last delivered id. Only checkpoint and fetch failures are returned; handler and
// advance failures are logged and reported through the result.
func (c *Cursor) Poll(ctx context.Context) (PollResult, error) {
	kind, name := c.source.Kind(), c.source.Name()
	ctx = logger.WithFields(ctx,
		zap.String("run_id", ulid.Make().String()),
		zap.String("source_type", kind.String()),
		zap.String("source_name", name),
	)

	checkpoint, _, err := c.checkpoints.GetCheckpoint(ctx, kind, name)
	if err != nil {
		return PollResult{}, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	result := PollResult{Checkpoint: checkpoint}

	records, err := c.source.FetchSince(ctx, checkpoint, c.batchLimit)
	if err != nil {
		return result, err
	}
	if len(records) == 0 {
		logger.DebugCtx(ctx, "No new records", zap.String("checkpoint", checkpoint))
		return result, nil
	}

	result.Delivered = len(records)
	first, last := records[0].ID, records[len(records)-1].ID
	logger.InfoCtx(ctx, "Delivering records",
		zap.Int("count", len(records)),
		zap.String("first_id", first),
		zap.String("last_id", last),
	)

	if err := c.handler(ctx, records); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to handle batch: %w", err),
			zap.String("checkpoint", checkpoint),
			zap.String("first_id", first),
			zap.String("last_id", last),
		)
		result.HandlerErr = err
		return result, nil
	}

	if err := c.checkpoints.AdvanceCheckpoint(ctx, kind, name, last); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("last_id", last))
		return result, nil
	}

	result.Checkpoint = last
	result.Advanced = true
	return result, nil
}
