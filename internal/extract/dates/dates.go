// Package dates resolves relative and absolute date phrases found in meeting
// text into ISO calendar dates, anchored to a caller-supplied "today".
//
// Resolution is intentionally shallow: it recognises explicit "Month day"
// phrases, "tomorrow", and same-day phrases ("today", "eod", "end of day").
// Anything else resolves to nothing and the task keeps an open due date.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// isoDate is the layout produced by Resolve.
const isoDate = "2006-01-02"

// monthDayRe matches "Month day" with full or three-letter month names as
// whole words, case-insensitively, so month fragments inside unrelated tokens
// ("market", "maybe") never match.
var monthDayRe = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\b\.?\s+(\d{1,2})\b`)

var (
	tomorrowRe = regexp.MustCompile(`(?i)\btomorrow\b`)
	sameDayRe  = regexp.MustCompile(`(?i)\b(?:today|eod|end of day)\b`)
)

// months maps lower-cased month tokens to their calendar month. Three-letter
// abbreviations share entries with the full names they abbreviate.
var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Resolve scans text for a date phrase and returns the resolved date in
// YYYY-MM-DD form. The boolean reports whether anything was recognised.
//
// Rules are tried most-specific first:
//
//  1. "Month day" — combined with today's year. The year is never taken from
//     the phrase; no check is made that the result lies in the future.
//  2. "tomorrow" — today plus one day.
//  3. "today", "eod", "end of day" — today unchanged.
func Resolve(text string, today time.Time) (string, bool) {
	if m := monthDayRe.FindStringSubmatch(text); m != nil {
		month := months[strings.ToLower(m[1])]
		day, err := strconv.Atoi(m[2])
		if err != nil || day < 1 || day > 31 {
			return "", false
		}
		return fmt.Sprintf("%04d-%02d-%02d", today.Year(), int(month), day), true
	}

	if tomorrowRe.MatchString(text) {
		return today.AddDate(0, 0, 1).Format(isoDate), true
	}

	if sameDayRe.MatchString(text) {
		return today.Format(isoDate), true
	}

	return "", false
}
