package utils

import (
	"strings"
	"time"
)

// NormalizeCode trims and upper-cases a product code so lookups and the
// unique index agree on one spelling.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PurchaseReference generates the default reference for a purchase, e.g. ALIS-250714-093000
func PurchaseReference(at time.Time) string {
	return "ALIS-" + at.Format("060102-150405")
}
