package legis

import (
	"strings"
	"testing"
	"time"
)

func TestPipeline_Run_EndToEnd(t *testing.T) {
	presented := date(2024, time.January, 15)

	initiatives := []Initiative{{
		Expediente: "122/000031",
		Type:       "Proposición de Ley",
		Subject:    "Proposición de Ley de garantía del acceso a la vivienda",
		Author:     "Grupo Parlamentario Socialista",
		Presented:  &presented,
		Status:     "Aprobado",
		Narrative:  "Comisión de Vivienda desde el 01/02/2024 hasta el 15/03/2024; Aprobado en Pleno",
	}}

	pipeline := NewPipeline(NewMatcher(Levenshtein{}, DefaultThreshold), FlowOrderPresentedDesc)
	result, err := pipeline.Run(initiatives, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Initiatives) != 1 {
		t.Fatalf("Expected 1 initiative, got %d", len(result.Initiatives))
	}
	ini := result.Initiatives[0]

	if ini.Category != CategoryOrdinary {
		t.Errorf("Expected ordinary category, got %s", ini.Category)
	}
	if ini.Classification.Stage != StagePassed {
		t.Errorf("Expected passed stage, got %s", ini.Classification.Stage)
	}
	if ini.Classification.Step != 4 {
		t.Errorf("Expected step 4, got %d", ini.Classification.Step)
	}

	if len(ini.Events) != 2 {
		t.Fatalf("Expected 2 timeline events, got %d", len(ini.Events))
	}
	ranged := ini.Events[0]
	if ranged.Label != "Comisión de Vivienda" {
		t.Errorf("Expected range event first, got %q", ranged.Label)
	}
	if ranged.Start == nil || !ranged.Start.Equal(date(2024, time.February, 1)) {
		t.Errorf("Expected range start 2024-02-01, got %v", ranged.Start)
	}
	if ranged.End == nil || !ranged.End.Equal(date(2024, time.March, 15)) {
		t.Errorf("Expected range end 2024-03-15, got %v", ranged.End)
	}
	if ini.Events[1].Label != "Aprobado en Pleno" {
		t.Errorf("Expected dateless event last, got %q", ini.Events[1].Label)
	}

	if len(result.Flows) != 1 {
		t.Fatalf("Expected 1 flow, got %d", len(result.Flows))
	}
	if result.Flows[0].Stage != StagePassed {
		t.Errorf("Expected flow stage passed, got %s", result.Flows[0].Stage)
	}
}

func TestPipeline_Run_DuplicateExpediente(t *testing.T) {
	initiatives := []Initiative{
		{Expediente: "121/000001"},
		{Expediente: "121/000001"},
	}

	pipeline := NewPipeline(NewMatcher(nil, 0), "")
	_, err := pipeline.Run(initiatives, nil)
	if err == nil {
		t.Fatal("Expected an error for duplicate expediente keys")
	}
	if !strings.Contains(err.Error(), "121/000001") {
		t.Errorf("Expected the error to name the duplicate key, got: %v", err)
	}
}

func TestPipeline_Run_EmptySnapshot(t *testing.T) {
	pipeline := NewPipeline(NewMatcher(nil, 0), "")
	result, err := pipeline.Run(nil, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Flows) != 0 {
		t.Errorf("Expected no flows, got %d", len(result.Flows))
	}
}

func TestPipeline_Run_LinksLawToInitiative(t *testing.T) {
	published := date(2023, time.May, 25)

	initiatives := []Initiative{{
		Expediente: "121/000042",
		Type:       "Proyecto de Ley",
		Subject:    "Proyecto de Ley por el derecho a la vivienda",
		Status:     "Aprobado",
	}}
	laws := []ApprovedLaw{{
		LawNumber:  "12/2023",
		Title:      "Ley 12/2023 por el derecho a la vivienda",
		Published:  &published,
		OriginRefs: []string{"121/000042"},
	}}

	pipeline := NewPipeline(NewMatcher(nil, 0), "")
	result, err := pipeline.Run(initiatives, laws)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Flows) != 1 {
		t.Fatalf("Expected 1 merged flow, got %d", len(result.Flows))
	}
	flow := result.Flows[0]
	if flow.Key != "12/2023" {
		t.Errorf("Expected law-number flow key, got %q", flow.Key)
	}
	if flow.Initiative == nil || flow.Law == nil {
		t.Fatal("Expected the flow to carry both records")
	}

	found := false
	for _, event := range flow.Events {
		if event.Label == "Publicación" {
			found = true
		}
	}
	if !found {
		t.Error("Expected the law's publication milestone in the merged timeline")
	}

	if result.Laws[0].Category != CategoryApprovedLaw {
		t.Errorf("Expected approved_law category on the law record, got %s", result.Laws[0].Category)
	}
}

func TestPipeline_Run_DossierTextFeedsTimeline(t *testing.T) {
	initiatives := []Initiative{{
		Expediente:  "121/000050",
		Narrative:   "Calificación desde el 10/01/2023",
		DossierText: "Debate de totalidad desde el 20/02/2023",
	}}

	pipeline := NewPipeline(NewMatcher(nil, 0), "")
	result, err := pipeline.Run(initiatives, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	events := result.Initiatives[0].Events
	if len(events) != 2 {
		t.Fatalf("Expected events from both narrative and dossier text, got %d", len(events))
	}
	if events[0].Label != "Calificación" || events[1].Label != "Debate de totalidad" {
		t.Errorf("Unexpected events: %q, %q", events[0].Label, events[1].Label)
	}
}
