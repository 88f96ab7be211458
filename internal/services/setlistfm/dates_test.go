package setlistfm

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestSplitQueryISODate(t *testing.T) {
	parts := splitQuery("phish 1997-11-22", testNow)
	if parts.Artist != "phish" {
		t.Errorf("Artist = %q", parts.Artist)
	}
	if parts.Date != "22-11-1997" {
		t.Errorf("Date = %q, want 22-11-1997", parts.Date)
	}
	if parts.ISODate != "1997-11-22" {
		t.Errorf("ISODate = %q", parts.ISODate)
	}
	if parts.Year != "" {
		t.Errorf("Year = %q, want empty", parts.Year)
	}
}

func TestSplitQueryMonthNameDefaultsCurrentYear(t *testing.T) {
	parts := splitQuery("radiohead june 15", testNow)
	if parts.Artist != "radiohead" {
		t.Errorf("Artist = %q", parts.Artist)
	}
	if parts.Date != "15-06-2025" {
		t.Errorf("Date = %q, want 15-06-2025", parts.Date)
	}
}

func TestSplitQueryMonthNameWithYear(t *testing.T) {
	parts := splitQuery("pearl jam September 3, 1998", testNow)
	if parts.Artist != "pearl jam" {
		t.Errorf("Artist = %q", parts.Artist)
	}
	if parts.Date != "03-09-1998" {
		t.Errorf("Date = %q, want 03-09-1998", parts.Date)
	}
}

func TestSplitQueryBareYear(t *testing.T) {
	parts := splitQuery("nirvana 1993", testNow)
	if parts.Artist != "nirvana" {
		t.Errorf("Artist = %q", parts.Artist)
	}
	if parts.Date != "" {
		t.Errorf("Date = %q, want empty", parts.Date)
	}
	if parts.Year != "1993" {
		t.Errorf("Year = %q, want 1993", parts.Year)
	}
}

func TestSplitQueryCollapsesArtistWhitespace(t *testing.T) {
	parts := splitQuery("the  war on 1997-11-22 drugs", testNow)
	if parts.Artist != "the war on drugs" {
		t.Errorf("Artist = %q", parts.Artist)
	}
	if parts.Date != "22-11-1997" {
		t.Errorf("Date = %q", parts.Date)
	}
}

func TestSplitQueryNoDate(t *testing.T) {
	parts := splitQuery("the national", testNow)
	if parts.Artist != "the national" || parts.Date != "" || parts.Year != "" {
		t.Errorf("parts = %+v", parts)
	}
}

func TestParseEventDate(t *testing.T) {
	iso, err := parseEventDate("22-11-1997")
	if err != nil {
		t.Fatalf("parseEventDate: %v", err)
	}
	if iso != "1997-11-22" {
		t.Errorf("iso = %q", iso)
	}
	if _, err := parseEventDate("not-a-date"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
