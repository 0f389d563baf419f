package models

import (
	"strings"
	"time"
)

// Accepted exam date layouts, tried in order. Day-first formats come before
// month-first so "6/8/25" reads as 6 August.
var examDateLayouts = []string{
	"2/1/06",    // 6/8/25
	"2/1/2006",  // 06/08/2025
	"2-1-2006",  // 06-08-2025
	"2006-1-2",  // 2025-08-06
	"1/2/06",    // 8/6/25
	"1/2/2006",  // 08/06/2025
}

// ParseExamDate parses a free-text exam date against the accepted layouts.
// The second return value reports whether any layout matched.
func ParseExamDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range examDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExamDateSortKey returns the string key exams sort by: a fixed-width
// "YYYYMMDD" rendering when the date parses, otherwise the raw string. The
// relative placement of unparseable dates among parseable ones is therefore
// arbitrary but deterministic.
func ExamDateSortKey(s string) string {
	if t, ok := ParseExamDate(s); ok {
		return t.Format("20060102")
	}
	return s
}
