package engine

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeID canonicalizes a free-form identifier for matching. The same
// requisition number arrives as "1023", "1023.0", or " 1023 " depending on
// which export produced it; equality has to survive all three.
//
// Blank or "nan" input returns "" (no id, excluded from match sets). Numeric
// input with an integer value renders as the plain integer string; other
// numeric input keeps its float form; non-numeric input is returned trimmed.
// The function is idempotent.
func NormalizeID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
