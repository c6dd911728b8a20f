package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/millfloor/chipline/internal/platform/timeouts"
	"github.com/millfloor/chipline/internal/services/intake/domain"
	apperrors "github.com/millfloor/chipline/internal/services/intake/platform/errors"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ledgerFallbackPort is where a ledger answers when no explicit target is
// configured: the same host the wizard page was served from.
const ledgerFallbackPort = "8091"

// ledgerSavePath is the ledger's append endpoint.
const ledgerSavePath = "/save"

// Payload is the exact wire body the ledger expects. BoxNumber carries the
// identity value of the active variant regardless of chip type.
type Payload struct {
	BoxNumber    string `json:"boxNumber"`
	Product      string `json:"product"`
	NetWeight    string `json:"netWeight"`
	OperatorName string `json:"operatorName"`
	Destination  string `json:"destination"`
}

// Receipt reports what the ledger recorded for a saved record. Row is the
// 1-based sheet row when the ledger returned one, zero otherwise.
type Receipt struct {
	Row int
}

// Gateway saves a completed record to the plant ledger.
type Gateway interface {
	Save(ctx context.Context, origin requestmeta.Origin, payload Payload) (Receipt, error)
}

// payloadFromRecord flattens a validated record into the ledger wire body.
func payloadFromRecord(record domain.Record) Payload {
	return Payload{
		BoxNumber:    strings.TrimSpace(record.IdentityValue()),
		Product:      strings.TrimSpace(record.Product),
		NetWeight:    strings.TrimSpace(record.NetWeight),
		OperatorName: strings.TrimSpace(record.OperatorName),
		Destination:  strings.TrimSpace(record.Destination),
	}
}

// NewHTTPGateway builds the production ledger gateway. baseURL, when set,
// overrides per-request origin derivation; timeout bounds each ledger call.
func NewHTTPGateway(baseURL string, timeout time.Duration) Gateway {
	if timeout <= 0 {
		timeout = timeouts.LedgerRequest
	}
	return httpGateway{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type httpGateway struct {
	baseURL string
	client  *http.Client
}

func (g httpGateway) Save(ctx context.Context, origin requestmeta.Origin, payload Payload) (Receipt, error) {
	base := g.baseURL
	if base == "" {
		base = originBaseURL(origin)
	}
	if base == "" {
		return Receipt{}, apperrors.E(apperrors.KindUnavailable, "no ledger address could be derived")
	}

	ctx, span := otel.Tracer("intake").Start(ctx, "ledger.Save")
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, apperrors.E(apperrors.KindUnknown, "encode ledger payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+ledgerSavePath, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, apperrors.E(apperrors.KindUnavailable, "build ledger request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger request failed")
		return Receipt{}, apperrors.E(apperrors.KindUnavailable, "ledger request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		saveErr := apperrors.E(apperrors.KindUnavailable, "ledger rejected the record")
		span.RecordError(saveErr)
		span.SetStatus(codes.Error, "ledger rejected the record")
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return Receipt{}, saveErr
	}

	var decoded struct {
		Status string `json:"status"`
		Row    int    `json:"row"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "undecodable ledger response")
		return Receipt{}, apperrors.E(apperrors.KindUnavailable, "undecodable ledger response")
	}
	if decoded.Status != "ok" {
		saveErr := apperrors.E(apperrors.KindUnavailable, "ledger did not confirm the record")
		span.RecordError(saveErr)
		span.SetStatus(codes.Error, "ledger did not confirm the record")
		return Receipt{}, saveErr
	}

	span.SetAttributes(attribute.Int("ledger.row", decoded.Row))
	return Receipt{Row: decoded.Row}, nil
}

// originBaseURL derives the ledger target from the requesting page's own
// origin: same scheme and host, fixed fallback port.
func originBaseURL(origin requestmeta.Origin) string {
	host := strings.TrimSpace(origin.Host)
	if host == "" {
		return ""
	}
	if split, _, err := net.SplitHostPort(host); err == nil {
		host = split
	}
	host = strings.Trim(host, "[]")
	scheme := strings.TrimSpace(origin.Scheme)
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + net.JoinHostPort(host, ledgerFallbackPort)
}
