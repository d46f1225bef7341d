package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	CompactDateLayout = "20060102"
	ISODateLayout     = "2006-01-02"
)

// ParseDate menerima "YYYYMMDD", "YYYY-MM-DD", atau "today" dan mengembalikan
// tanggal ternormalisasi di tengah malam UTC.
func ParseDate(s string) (time.Time, error) {
	if strings.EqualFold(s, "today") {
		return Day(time.Now()), nil
	}
	for _, layout := range []string{CompactDateLayout, ISODateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, want YYYYMMDD or YYYY-MM-DD", s)
}

// Day memotong timestamp ke tengah malam UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatCompact(t time.Time) string {
	return t.Format(CompactDateLayout)
}

func FormatISO(t time.Time) string {
	return t.Format(ISODateLayout)
}
