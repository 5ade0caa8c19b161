// Package services contains the server-side business logic: the vault
// operations and the administration of the token ledger behind them.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/receipts"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/repomanager"
)

// consume records every proof id inside tx. A proof that was already used
// makes the whole operation fail with common.ErrReplay.
func consume(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, signers auth.Signers) error {
	repo := m.Signatures(tx)
	for _, p := range signers {
		err := repo.Record(ctx, &models.UsedSignature{
			ID:        p.ID,
			Signer:    p.Signer,
			ExpiresAt: p.ExpiresAt.Unix(),
		})
		if err != nil {
			return fmt.Errorf("proof %s: %w", p.ID, err)
		}
	}
	return nil
}

// archive stores a receipt for a committed operation. The operation has
// already happened, so failures are only logged.
func archive(ctx context.Context, a receipts.Archive, log logging.Logger, r receipts.Receipt) {
	if err := a.Put(ctx, r); err != nil {
		log.Warn(ctx, "receipt not archived", "id", r.ID, "operation", r.Operation, "err", err)
	}
}
