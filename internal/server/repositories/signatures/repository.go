// Package signatures remembers accepted request proofs so that a captured
// proof cannot be presented twice.
package signatures

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

type Repository interface {
	// Record stores a proof id. A repeated id fails with common.ErrReplay.
	Record(ctx context.Context, s *models.UsedSignature) error
	// DeleteExpired removes proofs that expired before now (unix seconds).
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

func recordResult(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrReplay
	}
	return nil
}

func deleteResult(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
