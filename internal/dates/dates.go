// Package dates provides natural-language date parsing and relative time
// formatting for the CLI layer. Parsing is a pure function of the input
// string and a reference time; it holds no state.
package dates

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

var relativePattern = regexp.MustCompile(`^(?:in )?(\d+) (day|days|week|weeks|month|months)$`)

// endOfDay pins a date to 23:59:59 local time, so "tomorrow" means any
// time tomorrow rather than the same wall-clock instant.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// ParseNatural parses a natural-language date expression relative to now.
// Supported forms: today/tod, tomorrow/tom, yesterday/yes, weekday names,
// "next <weekday|week|month>", "[in] N days|weeks|months", eow/eom, and
// plain dates (2006-01-02, 2006-01-02 15:04, RFC 3339). Returns false
// when the expression cannot be parsed.
func ParseNatural(input string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return time.Time{}, false
	}

	switch s {
	case "today", "tod":
		return endOfDay(now), true
	case "tomorrow", "tom":
		return endOfDay(now.AddDate(0, 0, 1)), true
	case "yesterday", "yes":
		return endOfDay(now.AddDate(0, 0, -1)), true
	case "eow", "end of week":
		daysUntilSunday := (int(time.Sunday) - int(now.Weekday()) + 7) % 7
		if daysUntilSunday == 0 {
			daysUntilSunday = 7
		}
		return endOfDay(now.AddDate(0, 0, daysUntilSunday)), true
	case "eom", "end of month":
		firstOfNext := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
		return endOfDay(firstOfNext.AddDate(0, 0, -1)), true
	}

	if wd, ok := weekdays[s]; ok {
		daysAhead := (int(wd) - int(now.Weekday()) + 7) % 7
		if daysAhead == 0 {
			daysAhead = 7
		}
		return endOfDay(now.AddDate(0, 0, daysAhead)), true
	}

	if rest, ok := strings.CutPrefix(s, "next "); ok {
		switch {
		case rest == "week":
			return endOfDay(now.AddDate(0, 0, 7)), true
		case rest == "month":
			return endOfDay(now.AddDate(0, 1, 0)), true
		default:
			if wd, ok := weekdays[rest]; ok {
				daysAhead := (int(wd)-int(now.Weekday())+7)%7 + 7
				return endOfDay(now.AddDate(0, 0, daysAhead)), true
			}
		}
	}

	if m := relativePattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			switch {
			case strings.HasPrefix(m[2], "day"):
				return endOfDay(now.AddDate(0, 0, n)), true
			case strings.HasPrefix(m[2], "week"):
				return endOfDay(now.AddDate(0, 0, n*7)), true
			default:
				return endOfDay(now.AddDate(0, n, 0)), true
			}
		}
	}

	layouts := []string{
		"2006-01-02 15:04",
		"2006-01-02",
		time.RFC3339,
		"01/02/2006",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			// A date with no time component means end of that day.
			if t.Hour() == 0 && t.Minute() == 0 {
				t = endOfDay(t)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatRelative renders a timestamp as a compact distance from now,
// like "3h" for the future or "2d ago" for the past.
func FormatRelative(t, now time.Time) string {
	diff := t.Sub(now)
	suffix := ""
	if diff < 0 {
		diff = -diff
		suffix = " ago"
	}

	seconds := int(diff.Seconds())
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds%s", seconds, suffix)
	case seconds < 3600:
		return fmt.Sprintf("%dm%s", seconds/60, suffix)
	case seconds < 86400:
		return fmt.Sprintf("%dh%s", seconds/3600, suffix)
	case seconds < 7*86400:
		return fmt.Sprintf("%dd%s", seconds/86400, suffix)
	case seconds < 28*86400:
		return fmt.Sprintf("%dw%s", seconds/(7*86400), suffix)
	default:
		return fmt.Sprintf("%dmo%s", seconds/(28*86400), suffix)
	}
}

// ParseTags splits a comma-separated tag string, trimming whitespace and
// an optional leading "+" on each tag.
func ParseTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		tag = strings.TrimPrefix(tag, "+")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatTags joins tags for display, sorted for stable output.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
