package ingest

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// DOCUMENT_ID_FIELD is the primary identifier of every document
const DOCUMENT_ID_FIELD = "_id"

// Finder runs a find against the document store
type Finder interface {
	Find(ctx context.Context, database, collection string, filter any, opts ...*options.FindOptions) ([]bson.M, error)
}

// DocumentSource polls a collection by an ordered id field
type DocumentSource struct {
	finder     Finder
	database   string
	collection string
	idField    string
}

// NewDocumentSource creates a source over database.collection. The id field defaults to "_id".
func NewDocumentSource(finder Finder, database, collection, idField string) *DocumentSource {
	if idField == "" {
		idField = DOCUMENT_ID_FIELD
	}
	return &DocumentSource{
		finder:     finder,
		database:   database,
		collection: collection,
		idField:    idField,
	}
}

func (s *DocumentSource) Kind() domain.SourceKind {
	return domain.SourceKindDocument
}

func (s *DocumentSource) Name() string {
	return s.collection
}

// FetchSince returns documents with id > checkpoint in ascending id order.
// On the primary id field the checkpoint is compared as an ObjectID when it parses as one.
func (s *DocumentSource) FetchSince(ctx context.Context, checkpoint string, limit int) ([]Record, error) {
	filter := bson.M{}
	if checkpoint != "" {
		filter[s.idField] = bson.M{"$gt": s.checkpointValue(checkpoint)}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: s.idField, Value: 1}}).
		SetLimit(int64(limit))

	docs, err := s.finder.Find(ctx, s.database, s.collection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s.%s: %w", s.database, s.collection, err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		id, ok := documentID(doc[s.idField])
		if !ok {
			return nil, fmt.Errorf("document in %s.%s has no %s", s.database, s.collection, s.idField)
		}
		records = append(records, Record{ID: id, Fields: store.Row(doc)})
	}

	return records, nil
}

func (s *DocumentSource) checkpointValue(checkpoint string) any {
	if s.idField != DOCUMENT_ID_FIELD {
		return checkpoint
	}
	oid, err := primitive.ObjectIDFromHex(checkpoint)
	if err != nil {
		return checkpoint
	}
	return oid
}

// documentID returns the string form of an id value; ObjectIDs use their hex form
func documentID(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case primitive.ObjectID:
		return id.Hex(), true
	case string:
		return id, id != ""
	default:
		return fmt.Sprint(id), true
	}
}
