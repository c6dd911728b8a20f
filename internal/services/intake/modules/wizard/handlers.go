package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/millfloor/chipline/internal/services/intake/domain"
	apperrors "github.com/millfloor/chipline/internal/services/intake/platform/errors"
	flashnotice "github.com/millfloor/chipline/internal/services/intake/platform/flash"
	"github.com/millfloor/chipline/internal/services/intake/platform/httpx"
	"github.com/millfloor/chipline/internal/services/intake/platform/modulehandler"
	"github.com/millfloor/chipline/internal/services/intake/platform/pagerender"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
	"github.com/millfloor/chipline/internal/services/intake/routepath"
	"github.com/millfloor/chipline/internal/services/intake/templates"
)

// wizardService defines the service operations used by wizard handlers.
type wizardService interface {
	catalogOptions() domain.Options
	clearAfter() time.Duration
	loadDraft(ctx context.Context, sessionID string) (domain.Record, error)
	beginNextRecord(ctx context.Context, sessionID string) (domain.Record, error)
	applyIdentity(ctx context.Context, sessionID string, input identityInput) (domain.Record, error)
	applyDestination(ctx context.Context, sessionID string, destination string) (domain.Record, error)
	submit(ctx context.Context, sessionID string, origin requestmeta.Origin) (submitResult, error)
	submitState(sessionID string) (submitPhase, Receipt)
}

type handlers struct {
	modulehandler.Base
	service    wizardService
	schemeMeta requestmeta.SchemePolicy
}

func newHandlers(s *service, base modulehandler.Base, policy requestmeta.SchemePolicy) handlers {
	return handlers{Base: base, service: s, schemeMeta: policy}
}

func (h handlers) handleIdentityGet(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.RequestContextAndSessionID(r)
	record, err := h.service.beginNextRecord(ctx, sessionID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.renderIdentityPage(w, r, http.StatusOK, record, "", "")
}

func (h handlers) handleIdentityPost(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.RequestContextAndSessionID(r)
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "core.error_bad_form", "failed to parse identity form"))
		return
	}
	input := identityInput{
		ChipType:     r.FormValue(domain.FieldChipType),
		BoxNumber:    r.FormValue(domain.FieldBoxNumber),
		BulkSilo:     r.FormValue(domain.FieldBulkSilo),
		Purchased:    r.FormValue(domain.FieldPurchased),
		Product:      r.FormValue(domain.FieldProduct),
		NetWeight:    r.FormValue(domain.FieldNetWeight),
		OperatorName: r.FormValue(domain.FieldOperatorName),
	}
	record, err := h.service.applyIdentity(ctx, sessionID, input)
	if err != nil {
		var fieldErr domain.FieldError
		if errors.As(err, &fieldErr) {
			loc, _ := h.PageLocalizer(w, r)
			h.renderIdentityPage(w, r, http.StatusBadRequest, record, fieldErr.Field, templates.T(loc, fieldErr.Key))
			return
		}
		h.WriteError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.WizardDestination)
}

func (h handlers) handleDestinationGet(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.RequestContextAndSessionID(r)
	record, err := h.service.loadDraft(ctx, sessionID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if !h.guardStep(w, r, domain.StepDestination, record) {
		return
	}
	h.renderDestinationPage(w, r, http.StatusOK, record, "")
}

func (h handlers) handleDestinationPost(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.RequestContextAndSessionID(r)
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "core.error_bad_form", "failed to parse destination form"))
		return
	}
	record, err := h.service.applyDestination(ctx, sessionID, r.FormValue(domain.FieldDestination))
	if err != nil {
		var fieldErr domain.FieldError
		if errors.As(err, &fieldErr) {
			loc, _ := h.PageLocalizer(w, r)
			h.renderDestinationPage(w, r, http.StatusBadRequest, record, templates.T(loc, fieldErr.Key))
			return
		}
		h.WriteError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.WizardReview)
}

func (h handlers) handleReviewGet(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.RequestContextAndSessionID(r)
	record, err := h.service.loadDraft(ctx, sessionID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if !h.guardStep(w, r, domain.StepReview, record) {
		return
	}
	phase, _ := h.service.submitState(sessionID)
	h.renderReviewPage(w, r, http.StatusOK, record, phase != phaseIdle)
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.RequestContextAndSessionID(r)
	result, err := h.service.submit(ctx, sessionID, requestmeta.RequestOrigin(r, h.schemeMeta))
	if err != nil {
		if apperrors.HTTPStatus(err) == http.StatusBadRequest {
			h.WriteError(w, r, err)
			return
		}
		h.writeFlashNotice(w, r, flashnotice.NoticeError("wizard.review.error_submit_failed"))
		httpx.WriteRedirect(w, r, routepath.WizardReview)
		return
	}
	switch result.status {
	case submitInFlight:
		httpx.WriteRedirect(w, r, routepath.WizardReview)
	case submitBlocked:
		h.writeFlashNotice(w, r, flashnotice.NoticeInfo(result.guard.Reason))
		httpx.WriteRedirect(w, r, routepath.StepPath(result.guard.RedirectTo))
	case submitAlreadySaved:
		httpx.WriteRedirect(w, r, routepath.WizardSaved)
	default:
		h.writeFlashNotice(w, r, flashnotice.NoticeSuccess("wizard.flash.saved"))
		httpx.WriteRedirect(w, r, routepath.WizardSaved)
	}
}

func (h handlers) handleSavedGet(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.RequestContextAndSessionID(r)
	phase, receipt := h.service.submitState(sessionID)
	if phase != phaseSaved {
		record, err := h.service.loadDraft(ctx, sessionID)
		if err != nil {
			h.WriteError(w, r, err)
			return
		}
		httpx.WriteRedirect(w, r, routepath.StepPath(domain.FirstIncomplete(record, h.service.catalogOptions())))
		return
	}

	loc, _ := h.PageLocalizer(w, r)
	rowMessage := ""
	if receipt.Row > 0 {
		rowMessage = loc.Sprintf("wizard.saved.row", receipt.Row)
	}
	h.WritePage(w, r, pagerender.ModulePage{
		Title:      templates.T(loc, "wizard.saved.title"),
		StatusCode: http.StatusOK,
		Refresh:    fmt.Sprintf("%d;url=%s", int(h.service.clearAfter()/time.Second), routepath.WizardIdentity),
		Fragment: templates.SavedPage(loc, templates.SavedView{
			RowMessage: rowMessage,
			NextURL:    routepath.WizardIdentity,
		}),
	})
}

// guardStep enforces step entry order. It redirects with a flash notice and
// reports false when the step is not yet reachable.
func (h handlers) guardStep(w http.ResponseWriter, r *http.Request, step domain.Step, record domain.Record) bool {
	guard := domain.GuardEnter(step, record, h.service.catalogOptions())
	if guard.Allowed {
		return true
	}
	h.writeFlashNotice(w, r, flashnotice.NoticeInfo(guard.Reason))
	httpx.WriteRedirect(w, r, routepath.StepPath(guard.RedirectTo))
	return false
}

func (h handlers) writeFlashNotice(w http.ResponseWriter, r *http.Request, notice flashnotice.Notice) {
	flashnotice.WriteWithPolicy(w, r, notice, h.schemeMeta)
}

func (h handlers) renderIdentityPage(w http.ResponseWriter, r *http.Request, statusCode int, record domain.Record, errorField string, errorMessage string) {
	loc, _ := h.PageLocalizer(w, r)
	opts := h.service.catalogOptions()
	h.WritePage(w, r, pagerender.ModulePage{
		Title:      templates.T(loc, "wizard.identity.title"),
		StatusCode: statusCode,
		Step:       int(domain.StepIdentity),
		Fragment: templates.IdentityForm(loc, templates.IdentityView{
			Action:           routepath.WizardIdentity,
			ChipType:         string(record.ChipType),
			BoxNumber:        record.BoxNumber,
			BulkSilo:         record.BulkSilo,
			Purchased:        record.Purchased,
			Product:          record.Product,
			NetWeight:        record.NetWeight,
			OperatorName:     record.OperatorName,
			Products:         opts.Products,
			PurchasedOptions: opts.Purchased,
			ErrorField:       errorField,
			ErrorMessage:     errorMessage,
		}),
	})
}

func (h handlers) renderDestinationPage(w http.ResponseWriter, r *http.Request, statusCode int, record domain.Record, errorMessage string) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, pagerender.ModulePage{
		Title:      templates.T(loc, "wizard.destination.title"),
		StatusCode: statusCode,
		Step:       int(domain.StepDestination),
		Fragment: templates.DestinationForm(loc, templates.DestinationView{
			Action:       routepath.WizardDestination,
			BackURL:      routepath.WizardIdentity,
			Destination:  record.Destination,
			Destinations: h.service.catalogOptions().Destinations,
			ErrorMessage: errorMessage,
		}),
	})
}

func (h handlers) renderReviewPage(w http.ResponseWriter, r *http.Request, statusCode int, record domain.Record, submitting bool) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, pagerender.ModulePage{
		Title:      templates.T(loc, "wizard.review.title"),
		StatusCode: statusCode,
		Step:       int(domain.StepReview),
		Fragment: templates.ReviewPage(loc, templates.ReviewView{
			SubmitAction: routepath.WizardSubmit,
			BackURL:      routepath.WizardDestination,
			Rows:         reviewRows(record, loc),
			Submitting:   submitting,
		}),
	})
}
