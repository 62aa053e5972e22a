package legis

import (
	"fmt"
	"log/slog"
)

// GraphBuilder combines source-stated cross-references with similarity matches
// into one edge set per initiative.
type GraphBuilder struct {
	matcher *Matcher
}

func NewGraphBuilder(matcher *Matcher) *GraphBuilder {
	return &GraphBuilder{matcher: matcher}
}

// Build resolves the initiative's outbound reference tokens against the pool
// and appends similarity edges above the matcher threshold. Reference tokens
// with no matching expediente are dropped: the source feed's cross-references
// are not guaranteed consistent.
func (g *GraphBuilder) Build(ini *Initiative, pool []*Initiative) []RelationshipEdge {
	index := make(map[string]*Initiative, len(pool))
	for _, candidate := range pool {
		if candidate.Expediente != "" {
			index[candidate.Expediente] = candidate
		}
	}
	return g.buildWithIndex(ini, pool, index)
}

// BuildAll computes edges for every initiative in the pool, sharing one
// expediente index across the batch.
func (g *GraphBuilder) BuildAll(pool []*Initiative) {
	index := make(map[string]*Initiative, len(pool))
	for _, ini := range pool {
		if ini.Expediente != "" {
			index[ini.Expediente] = ini
		}
	}
	for _, ini := range pool {
		ini.Edges = g.buildWithIndex(ini, pool, index)
	}
}

func (g *GraphBuilder) buildWithIndex(ini *Initiative, pool []*Initiative, index map[string]*Initiative) []RelationshipEdge {
	var edges []RelationshipEdge

	edges = append(edges, g.directEdges(ini, ini.RelatedRefs, "relacionada", index)...)
	edges = append(edges, g.directEdges(ini, ini.OriginRefs, "origen", index)...)

	for _, match := range g.matcher.Run(ini, pool) {
		edges = append(edges, RelationshipEdge{
			From:   ini.Expediente,
			To:     match.Candidate.Expediente,
			Kind:   EdgeSimilarity,
			Label:  fmt.Sprintf("subject similarity %.2f", match.Score),
			Weight: match.Score,
		})
	}

	return edges
}

func (g *GraphBuilder) directEdges(ini *Initiative, refs []string, label string, index map[string]*Initiative) []RelationshipEdge {
	var edges []RelationshipEdge
	for _, ref := range refs {
		target, ok := index[ref]
		if !ok {
			slog.Debug("Unresolvable cross-reference dropped", "expediente", ini.Expediente, "ref", ref)
			continue
		}
		if target == ini {
			continue
		}
		edges = append(edges, RelationshipEdge{
			From:   ini.Expediente,
			To:     target.Expediente,
			Kind:   EdgeDirect,
			Label:  label,
			Weight: 1.0,
		})
	}
	return edges
}
