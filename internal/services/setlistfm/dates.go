package setlistfm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"freedify/internal/textutil"
)

// queryParts is a search query decomposed into artist text and an optional
// date or year filter.
type queryParts struct {
	Artist string

	// Date is DD-MM-YYYY, the wire format Setlist.fm expects.
	Date string

	// ISODate is the same date as YYYY-MM-DD for display and audio lookup.
	ISODate string

	// Year is set when the query named a year without a full date.
	Year string
}

var (
	isoDatePattern  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayPattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	bareYearPattern = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	monthsByPrefix  = map[string]time.Month{"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April, "may": time.May, "jun": time.June, "jul": time.July, "aug": time.August, "sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December}
	danglingComma   = regexp.MustCompile(`\s*,\s*$`)
)

// splitQuery extracts a date expression from free text. Precedence is full
// ISO date, then month-name day (defaulting to the current year), then bare
// year. The matched token is removed from the artist text.
func splitQuery(query string, now time.Time) queryParts {
	parts := queryParts{}
	remaining := strings.TrimSpace(query)

	if m := isoDatePattern.FindStringSubmatch(remaining); m != nil {
		if date, err := time.Parse("2006-01-02", m[0]); err == nil {
			parts.Date = date.Format("02-01-2006")
			parts.ISODate = date.Format("2006-01-02")
			remaining = strings.Replace(remaining, m[0], "", 1)
		}
	}
	if parts.Date == "" {
		if m := monthDayPattern.FindStringSubmatch(remaining); m != nil {
			month := monthsByPrefix[strings.ToLower(m[1])]
			day, _ := strconv.Atoi(m[2])
			year := now.Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
			}
			if day >= 1 && day <= 31 {
				date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
				parts.Date = date.Format("02-01-2006")
				parts.ISODate = date.Format("2006-01-02")
				remaining = strings.Replace(remaining, m[0], "", 1)
			}
		}
	}
	if parts.Date == "" {
		if m := bareYearPattern.FindStringSubmatch(remaining); m != nil {
			parts.Year = m[1]
			remaining = strings.Replace(remaining, m[0], "", 1)
		}
	}

	remaining = danglingComma.ReplaceAllString(remaining, "")
	parts.Artist = textutil.CollapseSpaces(remaining)
	return parts
}

// parseEventDate converts the Setlist.fm DD-MM-YYYY event date to ISO form.
func parseEventDate(eventDate string) (string, error) {
	date, err := time.Parse("02-01-2006", strings.TrimSpace(eventDate))
	if err != nil {
		return "", fmt.Errorf("parse event date %q: %w", eventDate, err)
	}
	return date.Format("2006-01-02"), nil
}
