package wizard

import (
	"context"

	apperrors "github.com/millfloor/chipline/internal/services/intake/platform/errors"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
)

type unavailableGateway struct{}

func (unavailableGateway) Save(context.Context, requestmeta.Origin, Payload) (Receipt, error) {
	return Receipt{}, apperrors.E(apperrors.KindUnavailable, "ledger service is not configured")
}
