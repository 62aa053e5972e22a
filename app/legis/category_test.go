package legis

import (
	"testing"
)

func TestClassifyCategory_OrdinaryGovernmentBill(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type:   "Proyecto de Ley",
		Author: "Gobierno",
	})

	if category != CategoryOrdinary {
		t.Errorf("Expected ordinary, got %s", category)
	}
}

func TestClassifyCategory_OrdinaryMembersBill(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type:           "Proposición de Ley",
		Author:         "Grupo Parlamentario Socialista",
		ProcessingMode: "Normal",
	})

	if category != CategoryOrdinary {
		t.Errorf("Expected ordinary, got %s", category)
	}
}

func TestClassifyCategory_PopularGroupNameDoesNotLeak(t *testing.T) {
	// A parliamentary group named "Popular" is not a citizens' initiative.
	category := ClassifyCategory(&Initiative{
		Type:   "Proposición de Ley",
		Author: "Grupo Parlamentario Popular en el Congreso",
	})

	if category != CategoryOrdinary {
		t.Errorf("Expected ordinary for a group-authored bill, got %s", category)
	}
}

func TestClassifyCategory_UrgentMode(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type:           "Proyecto de Ley",
		ProcessingMode: "Urgente",
	})

	if category != CategoryUrgent {
		t.Errorf("Expected urgent, got %s", category)
	}
}

func TestClassifyCategory_DecreeLaw(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type: "Real Decreto-ley",
	})

	if category != CategoryUrgent {
		t.Errorf("Expected urgent for a decree-law, got %s", category)
	}
}

func TestClassifyCategory_UrgentSubjectDoesNotLeak(t *testing.T) {
	// "Urgente" in the subject of a bill with no urgent processing mode is
	// just the bill's topic, not its procedure.
	category := ClassifyCategory(&Initiative{
		Type:    "Proposición de Ley",
		Subject: "Medidas urgentes en materia de vivienda",
	})

	if category != CategoryOrdinary {
		t.Errorf("Expected ordinary for an urgent-themed bill, got %s", category)
	}
}

func TestClassifyCategory_DecreeLawSubjectMention(t *testing.T) {
	// An ordinary bill whose subject cross-references a decree-law stays
	// ordinary; only a decree-law mention outside the bill forms counts.
	category := ClassifyCategory(&Initiative{
		Type:    "Proyecto de Ley",
		Subject: "Modificación del Real Decreto-ley 5/2023",
	})

	if category != CategoryOrdinary {
		t.Errorf("Expected ordinary for a bill referencing a decree-law, got %s", category)
	}

	category = ClassifyCategory(&Initiative{
		Type:    "Convalidación",
		Subject: "Convalidación del Real Decreto-ley 5/2023",
	})

	if category != CategoryUrgent {
		t.Errorf("Expected urgent for a non-bill decree-law record, got %s", category)
	}
}

func TestClassifyCategory_ConstitutionalReform(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type: "Propuesta de reforma constitucional",
	})

	if category != CategorySpecialMajority {
		t.Errorf("Expected special_majority, got %s", category)
	}
}

func TestClassifyCategory_AutonomousCommunity(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type:   "Reforma de Estatuto de Autonomía",
		Author: "Parlamento de Cataluña",
	})

	if category != CategoryAutonomous {
		t.Errorf("Expected autonomous_community, got %s", category)
	}
}

func TestClassifyCategory_PopularInitiative(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type:   "Iniciativa Legislativa Popular",
		Author: "Comisión Promotora",
	})

	if category != CategoryPopular {
		t.Errorf("Expected popular_initiative, got %s", category)
	}
}

func TestClassifyCategory_ConstitutionalBody(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type:   "Informe anual",
		Author: "Defensor del Pueblo",
	})

	if category != CategoryInstitutional {
		t.Errorf("Expected constitutional_body, got %s", category)
	}
}

func TestClassifyCategory_DefaultsToOrdinary(t *testing.T) {
	category := ClassifyCategory(&Initiative{
		Type:   "Comunicación del Gobierno",
		Author: "Gobierno",
	})

	if category != CategoryOrdinary {
		t.Errorf("Expected ordinary default, got %s", category)
	}
}

func TestClassifyCategory_Total(t *testing.T) {
	// Classification is total: any record gets exactly one known category.
	known := map[Category]bool{
		CategoryOrdinary:        true,
		CategoryUrgent:          true,
		CategorySpecialMajority: true,
		CategoryAutonomous:      true,
		CategoryPopular:         true,
		CategoryInstitutional:   true,
		CategoryApprovedLaw:     true,
	}

	inputs := []*Initiative{
		{},
		{Type: "Proyecto de Ley", ProcessingMode: "Urgente"},
		{Type: "???", Author: "???", Subject: "???"},
		{Type: "Reforma constitucional", Author: "Parlamento Vasco"},
	}

	for i, ini := range inputs {
		category := ClassifyCategory(ini)
		if !known[category] {
			t.Errorf("Input %d produced unknown category %q", i, category)
		}
	}
}

func TestClassifyLawCategory(t *testing.T) {
	category := ClassifyLawCategory(&ApprovedLaw{
		LawNumber: "15/2022",
		Title:     "Ley de medidas urgentes",
	})

	if category != CategoryApprovedLaw {
		t.Errorf("Expected approved_law, got %s", category)
	}
}
