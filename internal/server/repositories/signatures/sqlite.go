package signatures

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Record(ctx context.Context, s *models.UsedSignature) error {
	query := `INSERT INTO used_signatures (jti, signer, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT (jti) DO NOTHING`
	return recordResult(r.db.ExecContext(ctx, query, s.ID, s.Signer.String(), s.ExpiresAt))
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	return deleteResult(r.db.ExecContext(ctx, `DELETE FROM used_signatures WHERE expires_at < ?`, now))
}
