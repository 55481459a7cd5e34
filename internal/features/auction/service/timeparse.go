package service

import (
	"regexp"
	"strings"
	"time"
)

// Accepted deadline forms, tried in order; the first match wins. Bare HH:MM
// resolves against the reference timezone and rolls to the next day when the
// time has already passed today.
var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"02-01-2006 15:04",
	"15:04",
}

var timePrefixRe = regexp.MustCompile(`^(until\s*|to\s*)`)

// ParseDeadline parses operator-supplied end-time text relative to now in
// loc. It returns ErrInvalidTimeFormat when no accepted form matches.
func ParseDeadline(text string, now time.Time, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	text = timePrefixRe.ReplaceAllString(strings.ToLower(text), "")
	text = strings.TrimSpace(text)

	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, text, loc)
		if err != nil {
			continue
		}

		if layout == "15:04" {
			local := now.In(loc)
			candidate := time.Date(local.Year(), local.Month(), local.Day(),
				t.Hour(), t.Minute(), 0, 0, loc)
			if !candidate.After(now) {
				candidate = candidate.AddDate(0, 0, 1)
			}
			return candidate, nil
		}

		return t, nil
	}

	return time.Time{}, ErrInvalidTimeFormat
}
