package sqlite

import (
	"errors"
	"strings"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// extendedCode returns the extended result code of a driver error. A bare
// SQLITE_CONSTRAINT carries no detail and reports false.
func extendedCode(err error) (int, bool) {
	var derr *driver.Error
	if errors.As(err, &derr) && derr.Code() != sqlite3.SQLITE_CONSTRAINT {
		return derr.Code(), true
	}
	return 0, false
}

// isForeignKeyViolation reports a failed FOREIGN KEY constraint. Errors without
// an extended code are matched on their message.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := extendedCode(err); ok {
		return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isUniqueViolation reports a failed UNIQUE or PRIMARY KEY constraint.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := extendedCode(err); ok {
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
