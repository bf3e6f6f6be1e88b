package db

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers we branch on.
const (
	ErrNumDuplicateEntry uint16 = 1062
)

// NullIfEmpty helps store optional strings as NULL.
func NullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// NullIfZero stores optional integers as NULL.
func NullIfZero(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// IsDuplicateKey reports a unique index violation, optionally for a specific key name.
func IsDuplicateKey(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != ErrNumDuplicateEntry {
		return false
	}
	if key == "" {
		return true
	}
	return strings.Contains(me.Message, key)
}

// StringPtr converts a NullString into an optional string.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// IntPtr converts a NullInt64 into an optional int.
func IntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
