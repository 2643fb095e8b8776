// Package services holds the server's business logic: registration, login,
// public profiles, account linking and project creation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/dbx"
	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/auth"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/repomanager"
)

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token   string
	Account *models.Account
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	hasher      *auth.Hasher
	profiles    *ProfileCache
	log         logging.Logger
}

func NewAccountService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	tokens *auth.TokenManager,
	hasher *auth.Hasher,
	profiles *ProfileCache,
	log logging.Logger,
) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		profiles:    profiles,
		log:         log.With("module", "accounts"),
	}
}

// Register validates the input, hashes the secret and inserts the account.
// The unique constraint on handle is the only collision check.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	hash, err := s.hasher.Hash(in.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: hash secret: %v", common.ErrorInternal, err)
	}

	repo := s.repomanager.Accounts(s.db)
	a, err := repo.Create(ctx, &models.Account{Handle: in.Handle, SecretHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorHandleAlreadyExists
		}
		return nil, fmt.Errorf("%w: create account: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "account registered", "account_id", a.ID, "handle", a.Handle)
	return a, nil
}

// Login checks the credentials and issues a session token. An unknown
// handle and a wrong secret both produce common.ErrorInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	if !possibleHandle(in.Handle) {
		s.hasher.CompareDummy(in.Secret)
		return nil, common.ErrorInvalidCredentials
	}

	repo := s.repomanager.Accounts(s.db)
	a, err := repo.GetByHandle(ctx, in.Handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(in.Secret)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("%w: lookup account: %v", common.ErrorInternal, err)
	}

	if err := s.hasher.Compare(a.SecretHash, in.Secret); err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("%w: compare secret: %v", common.ErrorInternal, err)
	}

	token, err := s.tokens.Issue(a.ID, a.Handle)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}

	return &LoginResult{Token: token, Account: a}, nil
}

// Profile returns the public view of an account, served from cache when
// possible.
func (s *AccountService) Profile(ctx context.Context, handle string) (*models.Profile, error) {
	if !possibleHandle(handle) {
		return nil, common.ErrorNotFound
	}
	if p, ok := s.profiles.Get(handle); ok {
		return &p, nil
	}

	a, err := s.repomanager.Accounts(s.db).GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: lookup profile: %v", common.ErrorInternal, err)
	}

	p := a.Profile()
	s.profiles.Put(p)
	return &p, nil
}

// Link attaches thirdPartyHandle to the account inside one transaction.
// Re-linking the same identity is a no-op; an identity held by another
// account yields common.ErrorAlreadyLinked.
func (s *AccountService) Link(ctx context.Context, accountID int64, thirdPartyHandle string) (*models.Account, error) {
	if thirdPartyHandle == "" {
		return nil, validationError(errors.New("third-party handle is empty"))
	}

	var linked *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		a, err := repo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if a.ThirdPartyHandle != nil && *a.ThirdPartyHandle == thirdPartyHandle {
			linked = a
			return nil
		}

		if err := repo.SetThirdPartyHandle(ctx, accountID, thirdPartyHandle); err != nil {
			return err
		}
		a.ThirdPartyHandle = &thirdPartyHandle
		linked = a
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrorNotFound
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, common.ErrorAlreadyLinked
		default:
			return nil, fmt.Errorf("%w: link account: %v", common.ErrorInternal, err)
		}
	}

	s.profiles.Invalidate(linked.Handle)
	s.log.Info(ctx, "account linked", "account_id", linked.ID, "third_party_handle", thirdPartyHandle)
	return linked, nil
}
