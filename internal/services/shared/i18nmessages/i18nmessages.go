// Package i18nmessages registers the embedded locale catalogs with
// x/text/message as an import side effect. Blank-import this package from any
// code that formats messages through a message.Printer.
package i18nmessages

import (
	"github.com/millfloor/chipline/internal/platform/i18n/catalog"
)

func init() {
	// Default loads and registers the embedded catalogs on first use.
	_ = catalog.Default()
}
