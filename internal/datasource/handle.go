package datasource

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/feral-file/ff-project-intel/internal/config"
	"github.com/feral-file/ff-project-intel/internal/domain"
)

// Handle is a live, shared connection to one store.
// Implementations serialize operations so one handle runs one operation at a time.
//
//go:generate mockgen -source=handle.go -destination=../mocks/handle.go -package=mocks -mock_names=Handle=MockHandle,SQLHandle=MockSQLHandle,DocumentHandle=MockDocumentHandle
type Handle interface {
	// Kind returns the store kind the handle talks to
	Kind() domain.SourceKind
	// Key returns the registry key the handle is kept under
	Key() string
	// Ping probes liveness
	Ping(ctx context.Context) error
	// Reconnect tears down the current session and builds a new one in place
	Reconnect(ctx context.Context) error
	// Close tears down the session; closing twice is a no-op
	Close(ctx context.Context) error
}

// SQLHandle is a handle to the relational store
type SQLHandle interface {
	Handle
	// Exec runs fn with exclusive use of the handle
	Exec(ctx context.Context, fn func(db *gorm.DB) error) error
}

// DocumentHandle is a handle to the document store
type DocumentHandle interface {
	Handle
	// Exec runs fn against the named database with exclusive use of the handle.
	// An empty name selects the handle's default database.
	Exec(ctx context.Context, database string, fn func(db *mongo.Database) error) error
}

// ConnConfig describes how to reach one store
type ConnConfig struct {
	Host     string
	Port     int
	Database string
	// DSN is the driver connection string (MySQL DSN or MongoDB URI)
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// Key derives the default registry key kind:host:port:database
func (c ConnConfig) Key(kind domain.SourceKind) string {
	return fmt.Sprintf("%s:%s:%d:%s", kind, c.Host, c.Port, c.Database)
}

// FromMySQL builds a connection config from the relational store configuration
func FromMySQL(cfg config.MySQLConfig) ConnConfig {
	return ConnConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Database:        cfg.DBName,
		DSN:             cfg.DSN(),
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}
}

// FromMongoDB builds a connection config from the document store configuration
func FromMongoDB(cfg config.MongoDBConfig) ConnConfig {
	return ConnConfig{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Database:       cfg.Database,
		DSN:            cfg.URI(),
		ConnectTimeout: cfg.ConnectTimeout,
	}
}
