// Package api exposes the ledger HTTP surface: save, status, and liveness.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/millfloor/chipline/internal/platform/id"
	"github.com/millfloor/chipline/internal/services/ledger/domain"
	"github.com/millfloor/chipline/internal/services/ledger/platform/httpx"
	"github.com/millfloor/chipline/internal/services/ledger/storage"
	"github.com/millfloor/chipline/internal/services/shared/weight"
)

const (
	savePath    = "/save"
	statusPath  = "/status"
	healthzPath = "/healthz"
)

// maxSaveBodyBytes bounds the save payload; a record is a handful of short
// strings.
const maxSaveBodyBytes = 1 << 20

// Sheet is the append surface the save endpoint writes to.
type Sheet interface {
	Append(ctx context.Context, row [7]string) (int, error)
	Len() int
}

// Handler serves the ledger's JSON endpoints.
type Handler struct {
	sheet   Sheet
	journal storage.Journal
	clock   func() time.Time
	loc     *time.Location
}

// NewHandler wires the save pipeline. loc controls the Date and Time stamps;
// nil falls back to the machine zone.
func NewHandler(sheet Sheet, journal storage.Journal, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{sheet: sheet, journal: journal, clock: time.Now, loc: loc}
}

// Router lays out the ledger routes. Non-POST hits on the save path get the
// mux's automatic 405 with an Allow header.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodPost+" "+savePath, h.handleSave)
	mux.HandleFunc(http.MethodGet+" "+statusPath, h.handleStatus)
	mux.HandleFunc(http.MethodGet+" "+healthzPath, h.handleHealthz)
	return mux
}

// savePayload is the wire body the intake stations post.
type savePayload struct {
	BoxNumber    string `json:"boxNumber"`
	Product      string `json:"product"`
	NetWeight    string `json:"netWeight"`
	OperatorName string `json:"operatorName"`
	Destination  string `json:"destination"`
}

type saveResponse struct {
	Status string `json:"status"`
	Row    int    `json:"row"`
}

type statusResponse struct {
	Status      string `json:"status"`
	Rows        int    `json:"rows"`
	LastSavedAt string `json:"lastSavedAt,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// errorResponse is the typed error body for rejected requests.
type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload savePayload
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSaveBodyBytes))
	if err := decoder.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a json object")
		return
	}
	if field := missingField(payload); field != "" {
		writeError(w, http.StatusBadRequest, field+" is required")
		return
	}
	if _, err := weight.Parse(payload.NetWeight); err != nil {
		writeError(w, http.StatusBadRequest, "netWeight must be a number greater than zero")
		return
	}

	now := h.clock().In(h.loc)
	entry := domain.Entry{
		BoxNumber:    strings.TrimSpace(payload.BoxNumber),
		Product:      strings.TrimSpace(payload.Product),
		NetWeight:    strings.TrimSpace(payload.NetWeight),
		OperatorName: strings.TrimSpace(payload.OperatorName),
		Destination:  strings.TrimSpace(payload.Destination),
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
	}

	rowNum, err := h.sheet.Append(r.Context(), entry.SheetRow())
	if err != nil {
		log.Printf("append ledger row: %v", err)
		writeError(w, http.StatusInternalServerError, "the record could not be written")
		return
	}

	// The sheet row is already down here: a journal failure fails the whole
	// request, and a retry appends the row again. No idempotency key is
	// exchanged, so the duplicate is left for the plant to reconcile.
	journalID, err := id.NewID()
	if err != nil {
		log.Printf("mint journal id: %v", err)
		writeError(w, http.StatusInternalServerError, "the record could not be journaled")
		return
	}
	record := storage.SubmissionRecord{
		ID:           journalID,
		BoxNumber:    entry.BoxNumber,
		Product:      entry.Product,
		NetWeight:    entry.NetWeight,
		OperatorName: entry.OperatorName,
		Destination:  entry.Destination,
		Date:         entry.Date,
		Time:         entry.Time,
		SheetRow:     rowNum,
		CreatedAt:    now.UTC(),
	}
	if err := h.journal.RecordSubmission(r.Context(), record); err != nil {
		log.Printf("journal ledger row %d: %v", rowNum, err)
		writeError(w, http.StatusInternalServerError, "the record could not be journaled")
		return
	}

	log.Printf("ledger row %d saved box=%s destination=%s", rowNum, entry.BoxNumber, entry.Destination)
	_ = httpx.WriteJSON(w, http.StatusOK, saveResponse{Status: "ok", Row: rowNum})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := h.journal.Stats(r.Context())
	if err != nil {
		log.Printf("read journal stats: %v", err)
		writeError(w, http.StatusInternalServerError, "journal is unavailable")
		return
	}

	rows := h.sheet.Len()
	if rows != stats.Rows {
		log.Printf("ledger drift: sheet has %d rows, journal has %d", rows, stats.Rows)
	}

	resp := statusResponse{Status: "ok", Rows: rows}
	if !stats.LastSavedAt.IsZero() {
		resp.LastSavedAt = stats.LastSavedAt.UTC().Format(time.RFC3339)
	}
	_ = httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// missingField returns the wire name of the first blank field, checked in
// submission order so the station always sees one stable message.
func missingField(payload savePayload) string {
	checks := []struct {
		name  string
		value string
	}{
		{"boxNumber", payload.BoxNumber},
		{"product", payload.Product},
		{"netWeight", payload.NetWeight},
		{"operatorName", payload.OperatorName},
		{"destination", payload.Destination},
	}
	for _, check := range checks {
		if strings.TrimSpace(check.value) == "" {
			return check.name
		}
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	_ = httpx.WriteJSON(w, status, errorResponse{Status: "error", Error: message})
}
