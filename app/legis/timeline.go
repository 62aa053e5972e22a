package legis

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Timeline extraction from "tramitación seguida" narrative text. Fragments are
// separated by line breaks or semicolons; each fragment is matched against the
// date patterns in precedence order, full range first so a range is never
// truncated by a partial pattern.

const datePattern = `(\d{1,2}/\d{1,2}/\d{4})`

var (
	rangePattern = regexp.MustCompile(`(?i)desde\s+(?:el\s+)?` + datePattern + `\s+hasta\s+(?:el\s+)?` + datePattern)
	startPattern = regexp.MustCompile(`(?i)desde\s+(?:el\s+)?` + datePattern)
	endPattern   = regexp.MustCompile(`(?i)hasta\s+(?:el\s+)?` + datePattern)
)

var fragmentSeparator = regexp.MustCompile(`[\n;]+`)

// ExtractTimeline parses narrative text into discrete dated events,
// deduplicated by (label, start, end) keeping the first occurrence, then
// sorted ascending by start date with dateless events last in input order.
func ExtractTimeline(narrative string) []TimelineEvent {
	var events []TimelineEvent
	seen := make(map[string]bool)

	for _, fragment := range fragmentSeparator.Split(narrative, -1) {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		event := parseFragment(fragment)
		key := eventKey(event)
		if seen[key] {
			continue
		}
		seen[key] = true
		events = append(events, event)
	}

	// Stable sort keeps the relative input order of dateless events.
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Start, events[j].Start
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	return events
}

func parseFragment(fragment string) TimelineEvent {
	event := TimelineEvent{Description: fragment}

	if m := rangePattern.FindStringSubmatch(fragment); m != nil {
		event.Label = strings.TrimSpace(rangePattern.Split(fragment, 2)[0])
		event.Start = parseEventDate(m[1])
		event.End = parseEventDate(m[2])
		return event
	}
	if m := startPattern.FindStringSubmatch(fragment); m != nil {
		event.Label = strings.TrimSpace(startPattern.Split(fragment, 2)[0])
		event.Start = parseEventDate(m[1])
		return event
	}
	if m := endPattern.FindStringSubmatch(fragment); m != nil {
		event.Label = strings.TrimSpace(endPattern.Split(fragment, 2)[0])
		event.End = parseEventDate(m[1])
		return event
	}

	event.Label = fragment
	return event
}

// parseEventDate parses D/M/YYYY, returning nil on malformed input (the
// fragment still yields an event, just without the date).
func parseEventDate(s string) *time.Time {
	t, err := time.ParseInLocation("2/1/2006", s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

func eventKey(event TimelineEvent) string {
	var b strings.Builder
	b.WriteString(event.Label)
	b.WriteByte('|')
	if event.Start != nil {
		b.WriteString(event.Start.Format("2006-01-02"))
	}
	b.WriteByte('|')
	if event.End != nil {
		b.WriteString(event.End.Format("2006-01-02"))
	}
	return b.String()
}
