package modules

import (
	"github.com/millfloor/chipline/internal/services/intake/modules/wizard"
)

// DefaultModules returns the stable intake modules in mount order.
func DefaultModules(deps Dependencies) []Module {
	return []Module{
		wizard.New(
			wizard.WithGateway(deps.LedgerGateway),
			wizard.WithDraftStore(deps.DraftStore),
			wizard.WithOptions(deps.Catalog),
			wizard.WithBase(deps.Base),
			wizard.WithSchemePolicy(deps.SchemePolicy),
			wizard.WithClearDelay(deps.ClearDelay),
		),
	}
}
