package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/dbx"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/projects"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeAccountsRepo is an in-memory accounts.Repository that enforces handle
// uniqueness the way the database constraint does.
type fakeAccountsRepo struct {
	mu       sync.Mutex
	byID     map[int64]*models.Account
	nextID   int64
	failWith error
	gets     int
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{byID: map[int64]*models.Account{}}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, ex := range f.byID {
		if ex.Handle == a.Handle {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	cp := *a
	f.byID[a.ID] = &cp
	return a, nil
}

func (f *fakeAccountsRepo) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, a := range f.byID {
		if a.Handle == handle {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountsRepo) SetThirdPartyHandle(ctx context.Context, id int64, h string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for otherID, a := range f.byID {
		if otherID != id && a.ThirdPartyHandle != nil && *a.ThirdPartyHandle == h {
			return common.ErrorAlreadyExists
		}
	}
	a, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.ThirdPartyHandle = &h
	return nil
}

type fakeProjectsRepo struct {
	created  []*models.Project
	list     []*models.Project
	failWith error
}

func (f *fakeProjectsRepo) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	p.ID = int64(len(f.created) + 1)
	p.CreatedAt = time.Now()
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeProjectsRepo) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.list, nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	p *fakeProjectsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository     { return m.a }
func (m *fakeRepoManager) Projects(db dbx.DBTX) projects.Repository     { return m.p }
