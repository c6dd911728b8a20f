package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/millfloor/chipline/internal/services/ledger/storage/sheet"
	"github.com/millfloor/chipline/internal/services/ledger/storage/sqlite"
)

func openTestStores(t *testing.T) (*sheet.Sheet, *sqlite.Store, string) {
	t.Helper()

	dir := t.TempDir()
	sheetPath := filepath.Join(dir, "records.csv")
	records, err := sheet.Open(sheetPath)
	if err != nil {
		t.Fatalf("open sheet: %v", err)
	}
	t.Cleanup(func() { _ = records.Close() })

	journal, err := sqlite.Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = journal.Close() })

	return records, journal, sheetPath
}

func TestNewServerRequiresHTTPAddr(t *testing.T) {
	t.Parallel()

	_, err := NewServer(context.Background(), Config{SheetPath: "records.csv", JournalPath: "journal.db"})
	if err == nil {
		t.Fatal("NewServer() without addr should fail")
	}
}

func TestNewServerRequiresSheetPath(t *testing.T) {
	t.Parallel()

	_, err := NewServer(context.Background(), Config{HTTPAddr: "127.0.0.1:0", JournalPath: "journal.db"})
	if err == nil {
		t.Fatal("NewServer() without sheet path should fail")
	}
}

func TestNewServerRequiresJournalPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewServer(context.Background(), Config{
		HTTPAddr:  "127.0.0.1:0",
		SheetPath: filepath.Join(dir, "records.csv"),
	})
	if err == nil {
		t.Fatal("NewServer() without journal path should fail")
	}
}

func TestNewServerRejectsUnknownTimezone(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewServer(context.Background(), Config{
		HTTPAddr:    "127.0.0.1:0",
		SheetPath:   filepath.Join(dir, "records.csv"),
		JournalPath: filepath.Join(dir, "journal.db"),
		Timezone:    "Mars/Olympus",
	})
	if err == nil {
		t.Fatal("NewServer() with unknown timezone should fail")
	}
}

func TestNewServerCreatesStorageDirsAndCloses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sheetPath := filepath.Join(dir, "sheets", "records.csv")
	journalPath := filepath.Join(dir, "journal", "journal.db")

	server, err := NewServer(context.Background(), Config{
		HTTPAddr:    "127.0.0.1:0",
		SheetPath:   sheetPath,
		JournalPath: journalPath,
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	for _, path := range []string{sheetPath, journalPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("store file %s missing: %v", path, err)
		}
	}

	if err := server.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	row := [7]string{"B-1", "Resin-X", "Ada Moreira", "Extruder A", "2026-03-14", "09:30:00", "120.5"}
	if _, err := server.sheet.Append(context.Background(), row); err == nil {
		t.Fatal("sheet should be closed after server Close")
	}
}

func TestHandlerSaveStatusRoundTrip(t *testing.T) {
	t.Parallel()

	records, journal, sheetPath := openTestStores(t)
	h := NewHandler(records, journal, time.UTC)

	body := `{"boxNumber":"B-17","product":"Resin-X","netWeight":"120.5","operatorName":"Ada Moreira","destination":"Extruder A"}`
	req := httptest.NewRequest(http.MethodPost, "/save", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("save response missing X-Request-ID")
	}

	var saved struct {
		Status string `json:"status"`
		Row    int    `json:"row"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode save body: %v", err)
	}
	if saved.Status != "ok" || saved.Row != 2 {
		t.Fatalf("save response = %+v, want ok row 2", saved)
	}

	raw, err := os.ReadFile(sheetPath)
	if err != nil {
		t.Fatalf("read sheet file: %v", err)
	}
	if !strings.Contains(string(raw), "B-17,Resin-X,Ada Moreira,Extruder A,") {
		t.Fatalf("sheet file missing appended row:\n%s", string(raw))
	}

	statusReq := httptest.NewRequest(http.MethodGet, "/status", nil)
	statusRR := httptest.NewRecorder()
	h.ServeHTTP(statusRR, statusReq)
	if statusRR.Code != http.StatusOK {
		t.Fatalf("status status = %d", statusRR.Code)
	}

	var status struct {
		Status      string `json:"status"`
		Rows        int    `json:"rows"`
		LastSavedAt string `json:"lastSavedAt"`
	}
	if err := json.Unmarshal(statusRR.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status body: %v", err)
	}
	if status.Status != "ok" || status.Rows != 1 {
		t.Fatalf("status response = %+v, want ok rows 1", status)
	}
	if status.LastSavedAt == "" {
		t.Fatal("status response missing lastSavedAt")
	}
}

func TestHandlerRejectsMissingFieldThroughChain(t *testing.T) {
	t.Parallel()

	records, journal, _ := openTestStores(t)
	h := NewHandler(records, journal, time.UTC)

	body := `{"boxNumber":"B-17","product":"Resin-X","netWeight":"120.5","operatorName":"Ada Moreira"}`
	req := httptest.NewRequest(http.MethodPost, "/save", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rr.Body.String(), "destination is required") {
		t.Fatalf("body = %s", rr.Body.String())
	}
	if got := records.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestResolveLocationDefaultsToMachineZone(t *testing.T) {
	t.Parallel()

	loc, err := resolveLocation("  ")
	if err != nil {
		t.Fatalf("resolveLocation() error = %v", err)
	}
	if loc != time.Local {
		t.Fatalf("location = %v, want time.Local", loc)
	}

	utc, err := resolveLocation(" UTC ")
	if err != nil {
		t.Fatalf("resolveLocation(UTC) error = %v", err)
	}
	if utc != time.UTC {
		t.Fatalf("location = %v, want time.UTC", utc)
	}
}
