package store

import (
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/feral-file/ff-project-intel/internal/domain"
)

const (
	// mysqlErrServerGone is "MySQL server has gone away"
	mysqlErrServerGone = 2006
	// mysqlErrLostConnection is "Lost connection to MySQL server during query"
	mysqlErrLostConnection = 2013
)

// IsConnectionLost reports whether err means the connection dropped mid-operation.
// Only these errors are retried.
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, domain.ErrConnectionLost) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrServerGone || mysqlErr.Number == mysqlErrLostConnection
	}

	return mongo.IsNetworkError(err)
}
