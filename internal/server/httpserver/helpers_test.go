package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/dbx"
	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/auth"
	"github.com/dmitrijs2005/handlekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/projects"
	"github.com/dmitrijs2005/handlekeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore backs both repositories in memory and mimics the unique
// constraints of the real schema.
type memStore struct {
	mu       sync.Mutex
	accounts []*models.Account
	projects []*models.Project
}

func (m *memStore) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.accounts {
		if ex.Handle == a.Handle {
			return nil, common.ErrorAlreadyExists
		}
	}
	a.ID = int64(len(m.accounts) + 1)
	a.CreatedAt = time.Now().UTC()
	cp := *a
	m.accounts = append(m.accounts, &cp)
	return a, nil
}

func (m *memStore) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Handle == handle {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memStore) SetThirdPartyHandle(ctx context.Context, id int64, h string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var target *models.Account
	for _, a := range m.accounts {
		if a.ThirdPartyHandle != nil && *a.ThirdPartyHandle == h && a.ID != id {
			return common.ErrorAlreadyExists
		}
		if a.ID == id {
			target = a
		}
	}
	if target == nil {
		return common.ErrorNotFound
	}
	target.ThirdPartyHandle = &h
	return nil
}

type memProjects struct{ s *memStore }

func (p memProjects) Create(ctx context.Context, pr *models.Project) (*models.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	pr.ID = int64(len(p.s.projects) + 1)
	pr.CreatedAt = time.Now().UTC()
	p.s.projects = append(p.s.projects, pr)
	return pr, nil
}

func (p memProjects) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*models.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	out := make([]*models.Project, 0)
	for i := len(p.s.projects) - 1; i >= 0 && len(out) < limit; i-- {
		if p.s.projects[i].OwnerID == ownerID {
			out = append(out, p.s.projects[i])
		}
	}
	return out, nil
}

type memManager struct{ s *memStore }

func (m memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m memManager) Accounts(dbx.DBTX) accounts.Repository        { return m.s }
func (m memManager) Projects(dbx.DBTX) projects.Repository        { return memProjects{m.s} }

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeLinker struct {
	handle  string
	err     error
	gotCode string
}

func (f *fakeLinker) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *fakeLinker) ResolveHandle(ctx context.Context, code string) (string, error) {
	f.gotCode = code
	return f.handle, f.err
}

type testEnv struct {
	srv     *HTTPServer
	tokens  *auth.TokenManager
	store   *memStore
	mock    sqlmock.Sqlmock
	linker  *fakeLinker
	metrics *metrics.Metrics
}

type envOption func(d *Deps)

func withoutLinker() envOption { return func(d *Deps) { d.Linker = nil } }

func withRedirectHosts(hosts ...string) envOption {
	return func(d *Deps) { d.RedirectHosts = hosts }
}

func withPinger(p Pinger) envOption { return func(d *Deps) { d.DB = p } }

func withAccounts(a AccountService) envOption { return func(d *Deps) { d.Accounts = a } }

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.Discard()
	store := &memStore{}
	rm := memManager{s: store}
	tokens := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	linker := &fakeLinker{handle: "alice-gh"}
	m := metrics.New(prometheus.NewRegistry())

	d := Deps{
		Accounts: services.NewAccountService(db, rm, tokens, auth.NewHasher(bcrypt.MinCost),
			services.NewProfileCache(16, time.Minute), log),
		Projects: services.NewProjectService(db, rm, log),
		Tokens:   tokens,
		Linker:   linker,
		DB:       fakePinger{},
		Metrics:  m,
		Logger:   log,
	}
	for _, o := range opts {
		o(&d)
	}

	return &testEnv{
		srv:     NewHTTPServer("127.0.0.1:0", time.Second, d),
		tokens:  tokens,
		store:   store,
		mock:    mock,
		linker:  linker,
		metrics: m,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func (e *testEnv) registerAndLogin(t *testing.T, handle, secret string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/register", map[string]string{"handle": handle, "secret": secret}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = e.do(t, http.MethodPost, "/login", map[string]string{"handle": handle, "secret": secret}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["token"].(string)
}

var errBoom = errors.New("boom")
