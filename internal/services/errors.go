package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// violation names the integrity constraint a failed write ran into.
type violation int

const (
	violationNone violation = iota
	violationUnique
	violationForeignKey
)

// Vendor codes for the violations above.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	mysqlDuplicateEntry   = 1062
	mysqlNoReferencedRow  = 1452
)

// classifyViolation maps a write error from any supported driver onto a
// violation. SQLite only exposes its constraint failures through the message.
func classifyViolation(err error) violation {
	if err == nil {
		return violationNone
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return violationUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return violationForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil {
		switch pgErr.Code {
		case pgUniqueViolation:
			return violationUnique
		case pgForeignKeyViolation:
			return violationForeignKey
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return violationUnique
		case mysqlNoReferencedRow:
			return violationForeignKey
		}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unique constraint"),
		strings.Contains(lower, "duplicate entry"),
		strings.Contains(lower, "duplicate key"):
		return violationUnique
	case strings.Contains(lower, "foreign key constraint"):
		return violationForeignKey
	}
	return violationNone
}

func isUniqueConstraintError(err error) bool {
	return classifyViolation(err) == violationUnique
}
