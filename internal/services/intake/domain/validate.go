package domain

import (
	"strings"

	"github.com/millfloor/chipline/internal/services/shared/weight"
)

// Canonical form control names carried by FieldError.Field.
const (
	FieldChipType     = "chip_type"
	FieldBoxNumber    = "box_number"
	FieldBulkSilo     = "bulk_silo"
	FieldPurchased    = "purchased"
	FieldProduct      = "product"
	FieldNetWeight    = "net_weight"
	FieldOperatorName = "operator_name"
	FieldDestination  = "destination"
)

// FieldError reports the first failed validation rule for a form field. Key
// is a localization key; Message is the developer-facing fallback.
type FieldError struct {
	Field   string
	Key     string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// ParseWeight parses the operator-entered net weight text. The value must be
// a finite number strictly greater than zero.
func ParseWeight(value string) (float64, error) {
	return weight.Parse(value)
}

// ValidateIdentity checks the step-one fields in a fixed order and reports
// only the first failure: chip type, variant value, product, net weight,
// operator name.
func ValidateIdentity(r Record, opts Options) error {
	if !r.ChipType.Known() {
		return FieldError{
			Field:   FieldChipType,
			Key:     "wizard.identity.error_chip_type",
			Message: "chip type is required",
		}
	}

	switch r.ChipType {
	case ChipTypeBox:
		value := strings.TrimSpace(r.BoxNumber)
		if value == "" {
			return FieldError{
				Field:   FieldBoxNumber,
				Key:     "wizard.identity.error_box_number_required",
				Message: "box number is required",
			}
		}
		if !isASCIIAlphanumeric(value) {
			return FieldError{
				Field:   FieldBoxNumber,
				Key:     "wizard.identity.error_box_number_alnum",
				Message: "box number must contain only ASCII letters and digits",
			}
		}
	case ChipTypeBulk:
		value := strings.TrimSpace(r.BulkSilo)
		if value == "" {
			return FieldError{
				Field:   FieldBulkSilo,
				Key:     "wizard.identity.error_bulk_silo_required",
				Message: "silo name is required",
			}
		}
		if strings.ContainsAny(value, "0123456789") {
			return FieldError{
				Field:   FieldBulkSilo,
				Key:     "wizard.identity.error_bulk_silo_digits",
				Message: "silo name must not contain digits",
			}
		}
	case ChipTypePurchased:
		value := strings.TrimSpace(r.Purchased)
		if value == "" {
			return FieldError{
				Field:   FieldPurchased,
				Key:     "wizard.identity.error_purchased_required",
				Message: "purchased material is required",
			}
		}
		if !opts.HasPurchased(value) {
			return FieldError{
				Field:   FieldPurchased,
				Key:     "wizard.identity.error_purchased_unknown",
				Message: "purchased material is not in the catalog",
			}
		}
	}

	product := strings.TrimSpace(r.Product)
	if product == "" {
		return FieldError{
			Field:   FieldProduct,
			Key:     "wizard.identity.error_product_required",
			Message: "product is required",
		}
	}
	if !opts.HasProduct(product) {
		return FieldError{
			Field:   FieldProduct,
			Key:     "wizard.identity.error_product_unknown",
			Message: "product is not in the catalog",
		}
	}

	if _, err := ParseWeight(r.NetWeight); err != nil {
		if strings.TrimSpace(r.NetWeight) == "" {
			return FieldError{
				Field:   FieldNetWeight,
				Key:     "wizard.identity.error_net_weight_required",
				Message: "net weight is required",
			}
		}
		return FieldError{
			Field:   FieldNetWeight,
			Key:     "wizard.identity.error_net_weight_positive",
			Message: "net weight must be a number greater than zero",
		}
	}

	if len(strings.Fields(r.OperatorName)) < 2 {
		return FieldError{
			Field:   FieldOperatorName,
			Key:     "wizard.identity.error_operator_name_full",
			Message: "operator name needs a first and last name",
		}
	}

	return nil
}

// ValidateDestination checks that exactly one known destination is selected.
func ValidateDestination(r Record, opts Options) error {
	destination := strings.TrimSpace(r.Destination)
	if destination == "" {
		return FieldError{
			Field:   FieldDestination,
			Key:     "wizard.destination.error_required",
			Message: "destination is required",
		}
	}
	if !opts.HasDestination(destination) {
		return FieldError{
			Field:   FieldDestination,
			Key:     "wizard.destination.error_unknown",
			Message: "destination is not in the catalog",
		}
	}
	return nil
}

// ValidateRecord re-runs every step rule; the submit path never trusts
// previously stored state.
func ValidateRecord(r Record, opts Options) error {
	if err := ValidateIdentity(r, opts); err != nil {
		return err
	}
	return ValidateDestination(r, opts)
}

// isASCIIAlphanumeric rejects every byte outside [0-9A-Za-z], which also
// rejects multi-byte runes.
func isASCIIAlphanumeric(value string) bool {
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
