package repository

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/secangkircinta/scug/internal/infrastructure/database"
	"github.com/secangkircinta/scug/internal/ports"
)

// NewRepositories wires every sqlx repository onto one connection
func NewRepositories(db *database.DB) ports.Repositories {
	return ports.Repositories{
		Projects: NewProjectRepository(db),
		Tasks:    NewTaskRepository(db),
		Members:  NewMemberRepository(db),
		Rosters:  NewProjectMemberRepository(db),
		Media:    NewMediaRepository(db),
		Covers:   NewCoverRepository(db),
		Reports:  NewReportRepository(db),
		Admins:   NewAdminRepository(db),
	}
}

// isUniqueViolation reports whether err comes from a unique constraint on
// either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

// likeOperator returns the case-insensitive pattern operator of the driver
func likeOperator(db *database.DB) string {
	if db.Driver() == database.DriverPostgres {
		return "ILIKE"
	}
	return "LIKE"
}

func now() time.Time {
	return time.Now().UTC()
}
