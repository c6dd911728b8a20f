// Package modules defines intake module registry helpers.
package modules

import (
	"time"

	"github.com/millfloor/chipline/internal/services/intake/domain"
	module "github.com/millfloor/chipline/internal/services/intake/module"
	"github.com/millfloor/chipline/internal/services/intake/modules/wizard"
	"github.com/millfloor/chipline/internal/services/intake/platform/modulehandler"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
	"github.com/millfloor/chipline/internal/services/intake/storage"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the wired backends and shared policy required to
// compose the intake module registry. Each field is typed as the narrow
// contract defined by the consuming module, so modules physically cannot
// reach backends they were not given.
type Dependencies struct {
	// Wizard module backends.
	LedgerGateway wizard.Gateway
	DraftStore    storage.DraftStore
	Catalog       domain.Options

	// Request-scoped resolvers and scheme policy shared by every module.
	Base         modulehandler.Base
	SchemePolicy requestmeta.SchemePolicy

	// ClearDelay is how long a saved confirmation lingers before the wizard
	// resets. Zero selects the module default.
	ClearDelay time.Duration
}
