// Package weight parses operator-entered net weight values. The intake
// wizard and the ledger API share this rule so a value accepted at the form
// boundary cannot be rejected again at the save boundary.
package weight

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalid reports a weight that is blank, malformed, or not greater than zero.
var ErrInvalid = errors.New("weight must be a number greater than zero")

// Parse converts an operator-entered weight into a number. The value must be
// finite and greater than zero; leading and trailing spaces are ignored.
func Parse(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, ErrInvalid
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed <= 0 {
		return 0, ErrInvalid
	}
	return parsed, nil
}
