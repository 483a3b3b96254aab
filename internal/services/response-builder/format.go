package responsebuilder

import (
	"strings"
	"time"
)

// The counterparty's document formats predate this service and are
// fixed: a mix of digits-only dates and dot-separated dates, chosen per
// field. Reproduced here exactly.

// FormatDate strips the dashes from an ISO date: "2026-03-05" -> "20260305".
func FormatDate(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	return strings.ReplaceAll(dateStr, "-", "")
}

// FormatHeaderDatetime strips the separators from an ISO datetime and
// appends a literal "00" seconds field regardless of actual seconds:
// "2026-03-05T20:52" -> "20260305T205200".
func FormatHeaderDatetime(dtStr string) string {
	if dtStr == "" {
		return ""
	}
	return strings.NewReplacer("-", "", ":", "").Replace(dtStr) + "00"
}

// FormatExposureTimestamp renders an ISO datetime as "dd.MM.yyyy HHmmss".
// Unparseable input passes through unchanged.
func FormatExposureTimestamp(dtStr string) string {
	if dtStr == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, dtStr); err == nil {
			return t.Format("02.01.2006 150405")
		}
	}
	return dtStr
}

// FormatExpiryDate renders an ISO date as "dd.MM.yyyy".
func FormatExpiryDate(dateStr string) string {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return dateStr
	}
	return parts[2] + "." + parts[1] + "." + parts[0]
}
