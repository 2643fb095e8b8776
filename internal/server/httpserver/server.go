// Package httpserver exposes the account, project and linking operations
// over HTTP/JSON.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/auth"
	"github.com/dmitrijs2005/handlekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/dmitrijs2005/handlekeeper/internal/server/services"
	"github.com/gorilla/mux"
)

type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Account, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Profile(ctx context.Context, handle string) (*models.Profile, error)
	Link(ctx context.Context, accountID int64, thirdPartyHandle string) (*models.Account, error)
}

type ProjectService interface {
	Create(ctx context.Context, ownerID int64, ownerHandle string, in services.ProjectInput) (*models.Project, error)
	List(ctx context.Context, ownerID int64) ([]*models.Project, error)
}

// LinkProvider is the external OAuth2 side of account linking.
type LinkProvider interface {
	AuthCodeURL(state string) string
	ResolveHandle(ctx context.Context, code string) (string, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the server routes to. Linker may be nil, in
// which case the linking routes are not mounted. RedirectHosts lists the
// hosts a finished link may send the browser to; local paths are always
// allowed.
type Deps struct {
	Accounts      AccountService
	Projects      ProjectService
	Tokens        *auth.TokenManager
	Linker        LinkProvider
	RedirectHosts []string
	DB            Pinger
	Metrics       *metrics.Metrics
	Logger        logging.Logger
}

type HTTPServer struct {
	address         string
	shutdownTimeout time.Duration
	accounts        AccountService
	projects        ProjectService
	tokens          *auth.TokenManager
	linker          LinkProvider
	redirectHosts   []string
	db              Pinger
	metrics         *metrics.Metrics
	logger          logging.Logger
	handler         http.Handler
}

func NewHTTPServer(address string, shutdownTimeout time.Duration, d Deps) *HTTPServer {
	if d.Metrics == nil {
		d.Metrics = metrics.New(nil)
	}
	s := &HTTPServer{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		accounts:        d.Accounts,
		projects:        d.Projects,
		tokens:          d.Tokens,
		linker:          d.Linker,
		redirectHosts:   d.RedirectHosts,
		db:              d.DB,
		metrics:         d.Metrics,
		logger:          d.Logger.With("module", "http_server"),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

func (s *HTTPServer) routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Use(s.requestIDMiddleware, s.loggingMiddleware, s.metricsMiddleware, s.recoverMiddleware)

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/user/{handle}", s.handleProfile).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	r.Handle("/auth/check", s.requireAuth(http.HandlerFunc(s.handleAuthCheck))).Methods(http.MethodGet)
	r.Handle("/createproject", s.requireAuth(http.HandlerFunc(s.handleCreateProject))).Methods(http.MethodPost)
	r.Handle("/projects", s.requireAuth(http.HandlerFunc(s.handleListProjects))).Methods(http.MethodGet)

	if s.linker != nil {
		r.Handle("/auth/login", s.requireAuth(http.HandlerFunc(s.handleLinkLogin))).Methods(http.MethodGet)
		r.HandleFunc("/auth/callback", s.handleLinkCallback).Methods(http.MethodGet)
	}

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
