// Package ledger hosts the sheet-backed record service the intake stations
// submit to.
package ledger

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

	"github.com/millfloor/chipline/internal/platform/timeouts"
	"github.com/millfloor/chipline/internal/services/ledger/api"
	"github.com/millfloor/chipline/internal/services/ledger/platform/httpx"
	"github.com/millfloor/chipline/internal/services/ledger/platform/observability"
	"github.com/millfloor/chipline/internal/services/ledger/storage/sheet"
	"github.com/millfloor/chipline/internal/services/ledger/storage/sqlite"
)

// Config carries ledger server settings.
type Config struct {
	HTTPAddr    string
	SheetPath   string
	JournalPath string
	Timezone    string
}

// Server hosts the ledger HTTP endpoints and owns the sheet and journal
// stores.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	sheet      *sheet.Sheet
	journal    *sqlite.Store
}

// NewHandler assembles the ledger HTTP surface over open stores.
func NewHandler(records *sheet.Sheet, journal *sqlite.Store, loc *time.Location) http.Handler {
	return httpx.Chain(
		api.NewHandler(records, journal, loc).Router(),
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(log.Default()),
	)
}

// NewServer validates config, opens the sheet and journal, and prepares the
// HTTP server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, errors.New("http address is required")
	}
	loc, err := resolveLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	records, err := openSheet(cfg.SheetPath)
	if err != nil {
		return nil, err
	}
	journal, err := openJournal(cfg.JournalPath)
	if err != nil {
		_ = records.Close()
		return nil, err
	}

	server := &Server{
		httpAddr: cfg.HTTPAddr,
		sheet:    records,
		journal:  journal,
	}
	server.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(records, journal, loc),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return server, nil
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if s == nil || s.httpServer == nil {
		return errors.New("server is not configured")
	}

	log.Printf("ledger listening on %s", s.httpAddr)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown ledger http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve ledger http: %w", err)
		}
		return nil
	}
}

// Close releases the HTTP server and both stores.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	var closeErr error
	if s.httpServer != nil {
		closeErr = s.httpServer.Close()
	}
	if s.sheet != nil {
		if err := s.sheet.Close(); err != nil {
			log.Printf("close sheet: %v", err)
		}
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			log.Printf("close journal store: %v", err)
		}
	}
	return closeErr
}

func resolveLocation(timezone string) (*time.Location, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone %q: %w", timezone, err)
	}
	return loc, nil
}

func openSheet(path string) (*sheet.Sheet, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sheet path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	records, err := sheet.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	return records, nil
}

func openJournal(path string) (*sqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	journal, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal store: %w", err)
	}
	return journal, nil
}
