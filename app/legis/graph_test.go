package legis

import (
	"testing"
)

func TestGraphBuilder_Build_DirectEdges(t *testing.T) {
	a := &Initiative{
		Expediente:  "121/000001",
		Subject:     "Ley de vivienda",
		RelatedRefs: []string{"122/000002", "999/999999"},
		OriginRefs:  []string{"122/000003"},
	}
	b := &Initiative{Expediente: "122/000002", Subject: "Presupuestos Generales"}
	c := &Initiative{Expediente: "122/000003", Subject: "Reforma fiscal"}

	builder := NewGraphBuilder(NewMatcher(Levenshtein{}, 0.99))
	edges := builder.Build(a, []*Initiative{a, b, c})

	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges (unresolvable ref dropped), got %d", len(edges))
	}

	if edges[0].To != "122/000002" || edges[0].Kind != EdgeDirect || edges[0].Label != "relacionada" {
		t.Errorf("Unexpected first edge: %+v", edges[0])
	}
	if edges[1].To != "122/000003" || edges[1].Label != "origen" {
		t.Errorf("Unexpected second edge: %+v", edges[1])
	}
	for _, edge := range edges {
		if edge.From != "121/000001" {
			t.Errorf("Expected edge from 121/000001, got %s", edge.From)
		}
		if edge.Weight != 1.0 {
			t.Errorf("Expected direct edge weight 1.0, got %f", edge.Weight)
		}
	}
}

func TestGraphBuilder_Build_SelfReferenceDropped(t *testing.T) {
	a := &Initiative{
		Expediente:  "121/000001",
		RelatedRefs: []string{"121/000001"},
	}

	builder := NewGraphBuilder(NewMatcher(Levenshtein{}, 0.99))
	edges := builder.Build(a, []*Initiative{a})

	if len(edges) != 0 {
		t.Errorf("Expected no edges for a self-reference, got %d", len(edges))
	}
}

func TestGraphBuilder_BuildAll_SimilarityEdges(t *testing.T) {
	a := &Initiative{Expediente: "121/000001", Subject: "Ley de protección de datos"}
	b := &Initiative{Expediente: "121/000002", Subject: "Ley de protección de datos"}
	c := &Initiative{Expediente: "121/000003", Subject: "Presupuestos Generales del Estado"}

	builder := NewGraphBuilder(NewMatcher(Levenshtein{}, DefaultThreshold))
	builder.BuildAll([]*Initiative{a, b, c})

	if len(a.Edges) != 1 {
		t.Fatalf("Expected 1 similarity edge on a, got %d", len(a.Edges))
	}
	if a.Edges[0].To != "121/000002" || a.Edges[0].Kind != EdgeSimilarity {
		t.Errorf("Unexpected edge: %+v", a.Edges[0])
	}
	if a.Edges[0].Weight != 1.0 {
		t.Errorf("Expected weight 1.0 for identical subjects, got %f", a.Edges[0].Weight)
	}

	// Similarity is symmetric: b carries the mirror edge.
	if len(b.Edges) != 1 || b.Edges[0].To != "121/000001" {
		t.Errorf("Expected mirror edge on b, got %+v", b.Edges)
	}

	if len(c.Edges) != 0 {
		t.Errorf("Expected no edges on the unrelated initiative, got %d", len(c.Edges))
	}
}
