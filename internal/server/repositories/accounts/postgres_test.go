package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := &models.TokenAccount{
		Address: identity.Generate().Public,
		Mint:    identity.Generate().Public,
		Owner:   identity.Generate().Public,
		Amount:  10,
	}
	q := `(?s)^INSERT\s+INTO\s+token_accounts\s*\(address,\s*mint,\s*owner,\s*amount,\s*frozen\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*ON\s+CONFLICT\s*\(address\)\s*DO\s+NOTHING\s*$`

	mock.ExpectExec(q).
		WithArgs(a.Address.String(), a.Mint.String(), a.Owner.String(), "10", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Create(context.Background(), a); !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetForUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	addr, mint, owner := identity.Generate().Public, identity.Generate().Public, identity.Generate().Public
	q := `(?s)^SELECT\s+address,\s*mint,\s*owner,\s*amount,\s*frozen\s+FROM\s+token_accounts\s+WHERE\s+address\s*=\s*\$1\s+FOR\s+UPDATE\s*$`
	rows := sqlmock.NewRows([]string{"address", "mint", "owner", "amount", "frozen"}).
		AddRow(addr.String(), mint.String(), owner.String(), "18446744073709551615", true)
	mock.ExpectQuery(q).WithArgs(addr.String()).WillReturnRows(rows)

	got, err := repo.GetForUpdate(context.Background(), addr)
	if err != nil {
		t.Fatalf("GetForUpdate error: %v", err)
	}
	if got.Owner != owner || got.Mint != mint || got.Amount != 18446744073709551615 || !got.Frozen {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.+FROM\s+token_accounts`).WillReturnError(sql.ErrNoRows)
	if _, err := repo.Get(context.Background(), identity.Generate().Public); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestSetAmountAndFrozen(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	addr := identity.Generate().Public

	mock.ExpectExec(`(?s)^UPDATE\s+token_accounts\s+SET\s+amount\s*=\s*\$2\s+WHERE\s+address\s*=\s*\$1\s*$`).
		WithArgs(addr.String(), "99").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.SetAmount(context.Background(), addr, 99); err != nil {
		t.Fatalf("SetAmount error: %v", err)
	}

	mock.ExpectExec(`(?s)^UPDATE\s+token_accounts\s+SET\s+frozen\s*=\s*\$2\s+WHERE\s+address\s*=\s*\$1\s*$`).
		WithArgs(addr.String(), true).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.SetFrozen(context.Background(), addr, true); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
