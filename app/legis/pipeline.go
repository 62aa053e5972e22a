package legis

import (
	"fmt"
	"log/slog"
)

// Pipeline runs the full core over one feed snapshot: category and stage
// classification, timeline extraction, relationship edges, flow linking.
// Every run recomputes everything from scratch; nothing is carried across
// runs.
type Pipeline struct {
	graph *GraphBuilder
	order FlowOrder
}

func NewPipeline(matcher *Matcher, order FlowOrder) *Pipeline {
	if order == "" {
		order = FlowOrderPresentedDesc
	}
	return &Pipeline{
		graph: NewGraphBuilder(matcher),
		order: order,
	}
}

// Run processes a snapshot. The only hard failure is a non-conforming input
// shape (duplicate expediente keys); per-record classification and timeline
// problems degrade to defaults and never abort the batch.
func (p *Pipeline) Run(initiatives []Initiative, laws []ApprovedLaw) (*RunResult, error) {
	if err := validateSnapshot(initiatives); err != nil {
		return nil, err
	}

	pool := make([]*Initiative, len(initiatives))
	for i := range initiatives {
		pool[i] = &initiatives[i]
	}

	for _, ini := range pool {
		ini.Category = ClassifyCategory(ini)
		ini.Classification = ClassifyStage(ini)
		narrative := ini.Narrative
		if ini.DossierText != "" {
			narrative += "\n" + ini.DossierText
		}
		ini.Events = ExtractTimeline(narrative)
		if ini.Expediente == "" {
			slog.Warn("Initiative without expediente classified but not persistable", "type", ini.Type)
		}
	}

	p.graph.BuildAll(pool)

	lawPtrs := make([]*ApprovedLaw, len(laws))
	for i := range laws {
		laws[i].Category = ClassifyLawCategory(&laws[i])
		lawPtrs[i] = &laws[i]
	}

	flows := LinkFlows(pool, lawPtrs, p.order)

	return &RunResult{
		Initiatives: initiatives,
		Laws:        laws,
		Flows:       flows,
	}, nil
}

// validateSnapshot rejects snapshots that violate the expediente natural-key
// contract, the one input shape error the core refuses to classify through.
func validateSnapshot(initiatives []Initiative) error {
	seen := make(map[string]bool, len(initiatives))
	for i := range initiatives {
		key := initiatives[i].Expediente
		if key == "" {
			continue
		}
		if seen[key] {
			return fmt.Errorf("duplicate expediente %q in snapshot", key)
		}
		seen[key] = true
	}
	return nil
}
