package store

import (
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// Store wraps the PocketBase app and exposes the typed persistence
// operations the services build on. All exactly-once transitions are
// expressed as conditional UPDATEs so concurrent callers racing on the
// same row get exactly one winner; the loser observes zero affected rows.
type Store struct {
	app core.App
}

func New(app core.App) *Store {
	return &Store{app: app}
}

// isUniqueViolation reports whether err stems from the unique index on
// the given column ("table.field"). Covers both the raw SQLite error and
// PocketBase's own unique-index validation message.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed: "+column) {
		return true
	}
	field := column[strings.LastIndexByte(column, '.')+1:]
	return strings.Contains(msg, field) && strings.Contains(strings.ToLower(msg), "unique")
}

// dec reads a decimal text column, treating empty or malformed values as
// zero.
func dec(r *core.Record, field string) decimal.Decimal {
	d, err := decimal.NewFromString(r.GetString(field))
	if err != nil {
		return decimal.Zero
	}
	return d
}
