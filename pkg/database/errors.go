package database

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
)

// IsUndefinedTable reports whether err is Postgres' "relation does not exist".
func IsUndefinedTable(err error) bool {
	return hasCode(err, codeUndefinedTable)
}

// IsUndefinedColumn reports whether err is Postgres' "column does not exist".
func IsUndefinedColumn(err error) bool {
	return hasCode(err, codeUndefinedColumn)
}

// IsSchemaMismatch is true for either of the data-shape errors above.
func IsSchemaMismatch(err error) bool {
	return IsUndefinedTable(err) || IsUndefinedColumn(err)
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}
