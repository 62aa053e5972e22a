package legis

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestExtractTimeline_RangeFragment(t *testing.T) {
	events := ExtractTimeline("Comisión de Justicia desde el 10/01/2023 hasta el 15/02/2023")

	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.Label != "Comisión de Justicia" {
		t.Errorf("Expected label 'Comisión de Justicia', got %q", event.Label)
	}
	if event.Start == nil || !event.Start.Equal(date(2023, time.January, 10)) {
		t.Errorf("Expected start 2023-01-10, got %v", event.Start)
	}
	if event.End == nil || !event.End.Equal(date(2023, time.February, 15)) {
		t.Errorf("Expected end 2023-02-15, got %v", event.End)
	}
}

func TestExtractTimeline_StartOnlyAndEndOnly(t *testing.T) {
	events := ExtractTimeline("Pleno desde el 01/03/2024\nPlazo de enmiendas hasta el 05/06/2023")

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	// The start-dated event sorts first; the end-only event has no start date
	// and therefore sorts last.
	if events[0].Label != "Pleno" {
		t.Errorf("Expected 'Pleno' first, got %q", events[0].Label)
	}
	if events[0].Start == nil || !events[0].Start.Equal(date(2024, time.March, 1)) {
		t.Errorf("Expected start 2024-03-01, got %v", events[0].Start)
	}
	if events[0].End != nil {
		t.Errorf("Expected no end date, got %v", events[0].End)
	}

	if events[1].Label != "Plazo de enmiendas" {
		t.Errorf("Expected 'Plazo de enmiendas' last, got %q", events[1].Label)
	}
	if events[1].Start != nil {
		t.Errorf("Expected no start date, got %v", events[1].Start)
	}
	if events[1].End == nil || !events[1].End.Equal(date(2023, time.June, 5)) {
		t.Errorf("Expected end 2023-06-05, got %v", events[1].End)
	}
}

func TestExtractTimeline_SortsByStartWithDatelessLast(t *testing.T) {
	narrative := "Aprobado en Pleno; Votación desde el 01/03/2024; Calificación desde el 10/01/2023"

	events := ExtractTimeline(narrative)

	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].Label != "Calificación" {
		t.Errorf("Expected earliest event first, got %q", events[0].Label)
	}
	if events[1].Label != "Votación" {
		t.Errorf("Expected later event second, got %q", events[1].Label)
	}
	if events[2].Label != "Aprobado en Pleno" {
		t.Errorf("Expected dateless event last, got %q", events[2].Label)
	}
	if events[2].Start != nil || events[2].End != nil {
		t.Errorf("Expected dateless event, got start=%v end=%v", events[2].Start, events[2].End)
	}
}

func TestExtractTimeline_Deduplicates(t *testing.T) {
	narrative := "Pleno desde el 01/03/2024; Pleno desde el 01/03/2024; Pleno desde el 01/03/2024"

	events := ExtractTimeline(narrative)

	if len(events) != 1 {
		t.Errorf("Expected duplicates collapsed to 1 event, got %d", len(events))
	}
}

func TestExtractTimeline_MalformedDate(t *testing.T) {
	events := ExtractTimeline("Pleno desde el 45/23/2024")

	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Start != nil {
		t.Errorf("Expected malformed date to yield no start, got %v", events[0].Start)
	}
	if events[0].Label != "Pleno" {
		t.Errorf("Expected label 'Pleno', got %q", events[0].Label)
	}
}

func TestExtractTimeline_EmptyNarrative(t *testing.T) {
	if events := ExtractTimeline(""); len(events) != 0 {
		t.Errorf("Expected no events, got %d", len(events))
	}
	if events := ExtractTimeline(" ; \n ; "); len(events) != 0 {
		t.Errorf("Expected no events for separator-only input, got %d", len(events))
	}
}

func TestExtractTimeline_Deterministic(t *testing.T) {
	narrative := "Comisión desde el 10/01/2023; Aprobado; Pleno desde el 01/03/2024"

	first := ExtractTimeline(narrative)
	second := ExtractTimeline(narrative)

	if len(first) != len(second) {
		t.Fatalf("Expected identical event counts, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Label != second[i].Label {
			t.Errorf("Event %d differs across runs: %q vs %q", i, first[i].Label, second[i].Label)
		}
	}
}
