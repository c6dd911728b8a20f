package app

import (
	module "github.com/millfloor/chipline/internal/services/intake/module"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
)

// Config captures the composition inputs for the intake root handler.
type Config struct {
	Modules      []module.Module
	SchemePolicy requestmeta.SchemePolicy
}
