package wizard

import (
	"strings"

	"github.com/millfloor/chipline/internal/services/intake/domain"
	"github.com/millfloor/chipline/internal/services/intake/templates"
)

// chipTypeLabelKey returns the localization key for a chip type's label.
func chipTypeLabelKey(t domain.ChipType) string {
	switch t {
	case domain.ChipTypeBox:
		return "wizard.identity.chip_type_box"
	case domain.ChipTypeBulk:
		return "wizard.identity.chip_type_bulk"
	case domain.ChipTypePurchased:
		return "wizard.identity.chip_type_purchased"
	default:
		return ""
	}
}

// reviewRows flattens a record into the label/value pairs shown on the review
// table, in ledger column order.
func reviewRows(record domain.Record, loc templates.Localizer) []templates.ReviewRow {
	chips := strings.TrimSpace(record.IdentityValue())
	if key := chipTypeLabelKey(record.ChipType); key != "" && chips != "" {
		chips = chips + " (" + templates.T(loc, key) + ")"
	}
	weight := strings.TrimSpace(record.NetWeight)
	if weight != "" {
		weight += " kg"
	}
	return []templates.ReviewRow{
		{Label: templates.T(loc, "wizard.review.field_chips"), Value: chips},
		{Label: templates.T(loc, "wizard.review.field_product"), Value: record.Product},
		{Label: templates.T(loc, "wizard.review.field_net_weight"), Value: weight},
		{Label: templates.T(loc, "wizard.review.field_operator"), Value: record.OperatorName},
		{Label: templates.T(loc, "wizard.review.field_destination"), Value: record.Destination},
	}
}
