package dbx

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64_ValueScan(t *testing.T) {
	for _, n := range []uint64{0, 1, math.MaxInt64, math.MaxInt64 + 1, math.MaxUint64} {
		v, err := Uint64(n).Value()
		require.NoError(t, err)

		var got Uint64
		require.NoError(t, got.Scan(v))
		require.Equal(t, Uint64(n), got)

		var fromBytes Uint64
		require.NoError(t, fromBytes.Scan([]byte(v.(string))))
		require.Equal(t, Uint64(n), fromBytes)
	}
}

func TestUint64_ScanRejects(t *testing.T) {
	var u Uint64
	require.Error(t, u.Scan(int64(-1)))
	require.Error(t, u.Scan("abc"))
	require.Error(t, u.Scan(1.5))

	require.NoError(t, u.Scan(int64(7)))
	require.Equal(t, Uint64(7), u)
}

func TestUint64_SQLiteRoundTrip(t *testing.T) {
	db := openBalances(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS amounts (id INTEGER PRIMARY KEY, v TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO amounts(id, v) VALUES (1, ?)`, Uint64(math.MaxUint64).String())
	require.NoError(t, err)

	var got Uint64
	require.NoError(t, db.QueryRowContext(ctx, `SELECT v FROM amounts WHERE id = 1`).Scan(&got))
	require.Equal(t, Uint64(math.MaxUint64), got)
}
