package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer("$", "", ".", "", ",", "", " ", "")

// ParseAmount parses a monetary cell into a number. Currency symbols and
// thousands separators ('.' and ',') are stripped and the remaining digits
// taken as the value; blank, "nan", or unparseable input yields 0. This is a
// lossy best-effort parser: a malformed cell degrades to zero instead of
// aborting the batch.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0
	}
	cleaned := strings.TrimSpace(amountCleaner.Replace(s))
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
