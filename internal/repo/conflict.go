package repo

import (
	"errors"
	"regexp"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

var (
	sqliteUniqueRE = regexp.MustCompile(`UNIQUE constraint failed: ([\w.]+)`)
	mysqlKeyRE     = regexp.MustCompile(`for key '([^']+)'`)
)

// ConflictField reports whether err is a unique-constraint violation and, if
// the driver names it, which field collided. Recognized shapes:
//   - gorm.ErrDuplicatedKey (field unknown, reported as "value")
//   - SQLite "UNIQUE constraint failed: users.email"
//   - MySQL error 1062 "... for key 'users.ux_users_email'"
func ConflictField(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		if m := mysqlKeyRE.FindStringSubmatch(myErr.Message); m != nil {
			return fieldFromIndex(m[1]), true
		}
		return "value", true
	}

	if m := sqliteUniqueRE.FindStringSubmatch(err.Error()); m != nil {
		col := m[1]
		if i := strings.LastIndexByte(col, '.'); i >= 0 {
			col = col[i+1:]
		}
		return col, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "value", true
	}
	return "", false
}

// fieldFromIndex extracts the column from a MySQL key name such as
// "users.ux_users_email" or "email".
func fieldFromIndex(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	if i := strings.LastIndexByte(key, '_'); i >= 0 {
		key = key[i+1:]
	}
	return key
}
