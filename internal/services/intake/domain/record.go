// Package domain holds the intake wizard's record model, enumerations, and
// validation rules. Everything here is pure: no storage, no HTTP, no clock.
package domain

import (
	"strings"
	"time"
)

// ChipType identifies how chips arrive at the station.
type ChipType string

const (
	ChipTypeUnset     ChipType = ""
	ChipTypeBox       ChipType = "box"
	ChipTypeBulk      ChipType = "bulk"
	ChipTypePurchased ChipType = "purchased"
)

// ParseChipType maps a form value onto a known chip type.
func ParseChipType(value string) (ChipType, bool) {
	t := ChipType(strings.TrimSpace(value))
	if t.Known() {
		return t, true
	}
	return ChipTypeUnset, false
}

// Known reports whether the chip type is one of the selectable values.
func (t ChipType) Known() bool {
	switch t {
	case ChipTypeBox, ChipTypeBulk, ChipTypePurchased:
		return true
	default:
		return false
	}
}

// Record is the single in-progress intake record for one station session.
// NetWeight keeps the operator's text verbatim so a reload shows what was
// typed; parsing happens at validation and payload-build time.
type Record struct {
	ChipType     ChipType  `json:"chipType,omitempty"`
	BoxNumber    string    `json:"boxNumber,omitempty"`
	BulkSilo     string    `json:"bulkSilo,omitempty"`
	Purchased    string    `json:"purchased,omitempty"`
	Product      string    `json:"product,omitempty"`
	NetWeight    string    `json:"netWeight,omitempty"`
	OperatorName string    `json:"operatorName,omitempty"`
	Destination  string    `json:"destination,omitempty"`
	SavedAt      time.Time `json:"savedAt"`
}

// IdentityValue returns the active variant's value: the box number for box,
// the silo name for bulk, the purchased material for purchased.
func (r Record) IdentityValue() string {
	switch r.ChipType {
	case ChipTypeBox:
		return r.BoxNumber
	case ChipTypeBulk:
		return r.BulkSilo
	case ChipTypePurchased:
		return r.Purchased
	default:
		return ""
	}
}

// WithChipType returns a copy with the chip type set. The variant values that
// do not belong to the selected type are cleared, so a stale hidden value can
// never ride along into submission.
func (r Record) WithChipType(t ChipType) Record {
	out := r
	out.ChipType = t
	if t != ChipTypeBox {
		out.BoxNumber = ""
	}
	if t != ChipTypeBulk {
		out.BulkSilo = ""
	}
	if t != ChipTypePurchased {
		out.Purchased = ""
	}
	return out
}

// Options carries the enumerated catalogs the wizard validates against. Each
// list is ordered and non-empty once loaded.
type Options struct {
	Products     []string
	Destinations []string
	Purchased    []string
}

// HasProduct reports catalog membership for a product value.
func (o Options) HasProduct(value string) bool {
	return contains(o.Products, value)
}

// HasDestination reports catalog membership for a destination value.
func (o Options) HasDestination(value string) bool {
	return contains(o.Destinations, value)
}

// HasPurchased reports catalog membership for a purchased material value.
func (o Options) HasPurchased(value string) bool {
	return contains(o.Purchased, value)
}

func contains(list []string, value string) bool {
	for _, candidate := range list {
		if candidate == value {
			return true
		}
	}
	return false
}
