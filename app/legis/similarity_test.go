package legis

import (
	"math"
	"testing"
)

func TestLevenshtein_Similarity(t *testing.T) {
	alg := Levenshtein{}

	if score := alg.Similarity("ley organica", "ley organica"); score != 1.0 {
		t.Errorf("Expected 1.0 for identical strings, got %f", score)
	}

	// kitten -> sitting: 3 edits over max length 7.
	score := alg.Similarity("kitten", "sitting")
	expected := 1.0 - 3.0/7.0
	if math.Abs(score-expected) > 1e-9 {
		t.Errorf("Expected %f, got %f", expected, score)
	}

	if score := alg.Similarity("", ""); score != 1.0 {
		t.Errorf("Expected 1.0 for two empty strings, got %f", score)
	}
	if score := alg.Similarity("abc", ""); score != 0.0 {
		t.Errorf("Expected 0.0 against an empty string, got %f", score)
	}
}

func TestLevenshtein_Symmetry(t *testing.T) {
	alg := Levenshtein{}

	pairs := [][2]string{
		{"proteccion de datos", "proteccion de los datos"},
		{"vivienda", "viviendas"},
		{"a", "xyz"},
	}

	for _, pair := range pairs {
		ab := alg.Similarity(pair[0], pair[1])
		ba := alg.Similarity(pair[1], pair[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Similarity(%q, %q) not symmetric: %f vs %f", pair[0], pair[1], ab, ba)
		}
	}
}

func TestJaroWinkler_Similarity(t *testing.T) {
	alg := JaroWinkler{}

	if score := alg.Similarity("vivienda", "vivienda"); score != 1.0 {
		t.Errorf("Expected 1.0 for identical strings, got %f", score)
	}

	// Classic pair: Jaro 0.944..., Winkler bonus for the 3-rune prefix.
	score := alg.Similarity("martha", "marhta")
	if math.Abs(score-0.9611111111) > 1e-6 {
		t.Errorf("Expected ~0.961111, got %f", score)
	}

	if score := alg.Similarity("abc", "xyz"); score != 0.0 {
		t.Errorf("Expected 0.0 for disjoint strings, got %f", score)
	}
}

func TestJaroWinkler_Symmetry(t *testing.T) {
	alg := JaroWinkler{}

	ab := alg.Similarity("dwayne", "duane")
	ba := alg.Similarity("duane", "dwayne")
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("Similarity not symmetric: %f vs %f", ab, ba)
	}
}

func TestNewAlgorithm(t *testing.T) {
	if name := NewAlgorithm("jaro_winkler").Name(); name != "jaro_winkler" {
		t.Errorf("Expected jaro_winkler, got %s", name)
	}
	if name := NewAlgorithm("levenshtein").Name(); name != "levenshtein" {
		t.Errorf("Expected levenshtein, got %s", name)
	}
	if name := NewAlgorithm("unknown").Name(); name != "levenshtein" {
		t.Errorf("Expected levenshtein default for unknown name, got %s", name)
	}
}

func TestMatcher_Run_ExcludesSelfAndEmptySubjects(t *testing.T) {
	target := &Initiative{Expediente: "121/000001", Subject: "Ley de vivienda"}
	twin := &Initiative{Expediente: "121/000002", Subject: "Ley de vivienda"}
	blank := &Initiative{Expediente: "121/000003"}

	matcher := NewMatcher(Levenshtein{}, DefaultThreshold)
	matches := matcher.Run(target, []*Initiative{target, twin, blank})

	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].Candidate != twin {
		t.Errorf("Expected the twin initiative to match")
	}
	if matches[0].Score != 1.0 {
		t.Errorf("Expected score 1.0 for identical subjects, got %f", matches[0].Score)
	}
}

func TestMatcher_Run_Threshold(t *testing.T) {
	target := &Initiative{Expediente: "121/000001", Subject: "kitten"}
	candidate := &Initiative{Expediente: "121/000002", Subject: "sitting"}

	// kitten/sitting scores ~0.571, below the default 0.6 cutoff.
	matcher := NewMatcher(Levenshtein{}, DefaultThreshold)
	if matches := matcher.Run(target, []*Initiative{candidate}); len(matches) != 0 {
		t.Errorf("Expected no matches below threshold, got %d", len(matches))
	}

	matcher = NewMatcher(Levenshtein{}, 0.5)
	if matches := matcher.Run(target, []*Initiative{candidate}); len(matches) != 1 {
		t.Errorf("Expected 1 match with lowered threshold, got %d", len(matches))
	}
}

func TestMatcher_Run_EmptyTargetSubject(t *testing.T) {
	target := &Initiative{Expediente: "121/000001"}
	candidate := &Initiative{Expediente: "121/000002", Subject: "Ley de vivienda"}

	matcher := NewMatcher(nil, 0)
	if matches := matcher.Run(target, []*Initiative{candidate}); matches != nil {
		t.Errorf("Expected nil matches for an empty target subject, got %v", matches)
	}
}
