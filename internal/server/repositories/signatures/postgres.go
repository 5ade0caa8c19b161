package signatures

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, s *models.UsedSignature) error {
	query := `INSERT INTO used_signatures (jti, signer, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING`
	return recordResult(r.db.ExecContext(ctx, query, s.ID, s.Signer.String(), s.ExpiresAt))
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	return deleteResult(r.db.ExecContext(ctx, `DELETE FROM used_signatures WHERE expires_at < $1`, now))
}
