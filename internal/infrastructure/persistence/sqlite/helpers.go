package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// Instants are stored as RFC3339 text in UTC, calendar dates as YYYY-MM-DD.
const timeLayout = time.RFC3339Nano

func timeToString(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeToString(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableDateToString(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseNullableDate(s sql.NullString) (*civil.Date, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s.String)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", s.String, err)
	}
	return &d, nil
}

func nullableIntToValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableStringToValue(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableUnitToValue(u *domain.RecurrenceUnit) any {
	if u == nil {
		return nil
	}
	return string(*u)
}

func nullableUnit(v sql.NullString) *domain.RecurrenceUnit {
	if !v.Valid {
		return nil
	}
	u := domain.RecurrenceUnit(v.String)
	return &u
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func stringArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// isForeignKeyViolation reports whether err is SQLite's foreign key failure.
func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	// Without extended result codes only the primary code is reported.
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(sqliteErr.Error(), "FOREIGN KEY")
}

// checkRowsAffected turns a zero-row UPDATE or DELETE into notFound.
func checkRowsAffected(res sql.Result, notFound error, entityID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, entityID)
	}
	return nil
}
