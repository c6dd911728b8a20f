// Package intake hosts the operator-facing wizard service that records chip
// containers to the plant ledger.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/millfloor/chipline/internal/platform/id"
	"github.com/millfloor/chipline/internal/platform/timeouts"
	intakeapp "github.com/millfloor/chipline/internal/services/intake/app"
	"github.com/millfloor/chipline/internal/services/intake/catalog"
	"github.com/millfloor/chipline/internal/services/intake/domain"
	"github.com/millfloor/chipline/internal/services/intake/modules"
	"github.com/millfloor/chipline/internal/services/intake/modules/wizard"
	"github.com/millfloor/chipline/internal/services/intake/platform/httpx"
	"github.com/millfloor/chipline/internal/services/intake/platform/modulehandler"
	"github.com/millfloor/chipline/internal/services/intake/platform/observability"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
	"github.com/millfloor/chipline/internal/services/intake/platform/sessioncookie"
	"github.com/millfloor/chipline/internal/services/intake/platform/sessionctx"
	"github.com/millfloor/chipline/internal/services/intake/storage"
	boltstore "github.com/millfloor/chipline/internal/services/intake/storage/bolt"
)

// Config defines startup inputs for the intake service.
type Config struct {
	HTTPAddr            string
	DraftDBPath         string
	LedgerURL           string
	LedgerTimeout       time.Duration
	ClearDelay          time.Duration
	CatalogPath         string
	TrustForwardedProto bool
}

// Server hosts the intake HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	drafts     *boltstore.Store
}

// NewHandler builds the station root handler from config and an open draft store.
func NewHandler(cfg Config, drafts storage.DraftStore) (http.Handler, error) {
	options, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	deps := modules.Dependencies{
		LedgerGateway: wizard.NewHTTPGateway(cfg.LedgerURL, cfg.LedgerTimeout),
		DraftStore:    drafts,
		Catalog:       options,
		Base:          modulehandler.NewBase(resolveStationSession, nil),
		SchemePolicy:  policy,
		ClearDelay:    cfg.ClearDelay,
	}
	h, err := intakeapp.BuildRootHandler(intakeapp.Config{
		Modules:      modules.DefaultModules(deps),
		SchemePolicy: policy,
	})
	if err != nil {
		return nil, err
	}
	return httpx.Chain(h,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		withStationSession(policy),
		observability.RequestLogger(log.Default()),
	), nil
}

// withStationSession guarantees a session id for every request: read the
// station cookie or mint one, then expose it on the request context.
func withStationSession(policy requestmeta.SchemePolicy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil {
				next.ServeHTTP(w, r)
				return
			}
			sessionID, ok := sessioncookie.Read(r)
			if !ok {
				minted, err := id.NewID()
				if err != nil {
					log.Printf("mint station session: %v", err)
					next.ServeHTTP(w, r)
					return
				}
				sessionID = minted
				sessioncookie.WriteWithPolicy(w, r, sessionID, policy)
			}
			next.ServeHTTP(w, r.WithContext(sessionctx.WithSessionID(r.Context(), sessionID)))
		})
	}
}

// resolveStationSession reads the session id the middleware placed on the
// context, falling back to the raw cookie for handlers outside the chain.
func resolveStationSession(r *http.Request) string {
	if r == nil {
		return ""
	}
	if sessionID, ok := sessionctx.SessionID(r.Context()); ok {
		return sessionID
	}
	sessionID, _ := sessioncookie.Read(r)
	return sessionID
}

func loadCatalog(path string) (domain.Options, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Load()
	}
	return catalog.LoadFromFile(path)
}

func openDraftStore(path string) (*boltstore.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := boltstore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draft store: %w", err)
	}
	return store, nil
}

// NewServer validates config, opens the draft store, and builds the HTTP server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	drafts, err := openDraftStore(cfg.DraftDBPath)
	if err != nil {
		return nil, err
	}
	handler, err := NewHandler(cfg, drafts)
	if err != nil {
		_ = drafts.Close()
		return nil, fmt.Errorf("compose intake handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		drafts: drafts,
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("intake server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("intake listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown intake http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve intake http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.drafts != nil {
		if err := s.drafts.Close(); err != nil {
			log.Printf("close draft store: %v", err)
		}
	}
}
