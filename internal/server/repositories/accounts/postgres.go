// Package accounts stores the credential records behind registration,
// login and account linking.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/dbx"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
)

// Names of the unique constraints declared in the accounts migration.
const (
	HandleConstraint           = "accounts_handle_key"
	ThirdPartyHandleConstraint = "accounts_third_party_handle_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account. Handle uniqueness is left to the unique
// constraint: a collision comes back as common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (handle, secret_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, account.Handle, account.SecretHash).
		Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, HandleConstraint) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	query :=
		`SELECT id, handle, secret_hash, third_party_handle, created_at FROM accounts
		 WHERE handle = $1
		 `
	return r.getOne(ctx, query, handle)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT id, handle, secret_hash, third_party_handle, created_at FROM accounts
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a := &models.Account{}
	var thirdParty sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Handle, &a.SecretHash, &thirdParty, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if thirdParty.Valid {
		a.ThirdPartyHandle = &thirdParty.String
	}
	return a, nil
}

// SetThirdPartyHandle links an external identity to the account. It returns
// common.ErrorNotFound when the account does not exist and
// common.ErrorAlreadyExists when another account already holds the identity.
func (r *PostgresRepository) SetThirdPartyHandle(ctx context.Context, id int64, thirdPartyHandle string) error {
	query :=
		`UPDATE accounts SET third_party_handle = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, thirdPartyHandle, id)
	if err != nil {
		if dbx.IsUniqueViolation(err, ThirdPartyHandleConstraint) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
