package domain

import (
	"fmt"
	"strings"
)

// SourceKind identifies the kind of store an ingestion source lives in
type SourceKind int

const (
	SourceKindUnknown SourceKind = iota
	// SourceKindRelational is a table in the relational store
	SourceKindRelational
	// SourceKindDocument is a collection in the document store
	SourceKindDocument
)

// String returns the persisted form of the source kind.
// The values match what is stored in extracted_record.source_type.
func (k SourceKind) String() string {
	switch k {
	case SourceKindRelational:
		return "mysql"
	case SourceKindDocument:
		return "mongodb"
	default:
		return "unknown"
	}
}

// ParseSourceKind parses a configured or persisted source type
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "relational":
		return SourceKindRelational, nil
	case "mongodb", "mongo", "document":
		return SourceKindDocument, nil
	default:
		return SourceKindUnknown, fmt.Errorf("%w: %q", ErrUnknownSourceKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *SourceKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSourceKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// EntityKind identifies which master table a URL or social link belongs to
type EntityKind string

const (
	EntityProject  EntityKind = "project"
	EntityPerson   EntityKind = "person"
	EntityInvestor EntityKind = "investor"
)
