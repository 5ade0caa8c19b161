package dbx

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Uint64 stores a full-range unsigned 64-bit value as a decimal string.
// database/sql rejects uint64 arguments with the high bit set, and token
// amounts and counters may legitimately reach math.MaxUint64. Columns are
// NUMERIC(20,0) on PostgreSQL and TEXT on SQLite.
//
// Repositories pass String() as the query argument (drivers that implement
// driver.NamedValueChecker may bypass Value) and scan into *Uint64.
type Uint64 uint64

func (u Uint64) String() string {
	return strconv.FormatUint(uint64(u), 10)
}

func (u Uint64) Value() (driver.Value, error) {
	return u.String(), nil
}

func (u *Uint64) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return u.parse(v)
	case []byte:
		return u.parse(string(v))
	case int64:
		if v < 0 {
			return fmt.Errorf("dbx: negative value %d for Uint64", v)
		}
		*u = Uint64(v)
		return nil
	default:
		return fmt.Errorf("dbx: cannot scan %T into Uint64", src)
	}
}

func (u *Uint64) parse(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("dbx: parse Uint64: %w", err)
	}
	*u = Uint64(n)
	return nil
}
