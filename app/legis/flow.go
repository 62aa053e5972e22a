package legis

import (
	"sort"
	"time"
)

// FlowOrder selects the output ordering of LinkFlows.
type FlowOrder string

const (
	// FlowOrderPresentedDesc is the default: newest presentation date first.
	FlowOrderPresentedDesc FlowOrder = "presented_desc"
	FlowOrderPresentedAsc  FlowOrder = "presented_asc"
)

// LinkFlows joins initiatives to the approved laws they became and emits one
// unified timeline per legislative item. Matched pairs merge into a flow keyed
// by the law; unmatched initiatives and laws are emitted standalone. Every
// input item appears in exactly one flow.
func LinkFlows(initiatives []*Initiative, laws []*ApprovedLaw, order FlowOrder) []Flow {
	index := make(map[string]*Initiative, len(initiatives))
	for _, ini := range initiatives {
		if ini.Expediente != "" {
			index[ini.Expediente] = ini
		}
	}

	flows := make([]Flow, 0, len(initiatives)+len(laws))
	matched := make(map[string]bool)

	for _, law := range laws {
		origin := findOrigin(law, index)
		flow := Flow{
			Key:         lawKey(law),
			Law:         law,
			FinalStatus: law.FinalStatus,
		}
		if origin != nil && !matched[origin.Expediente] {
			matched[origin.Expediente] = true
			flow.Initiative = origin
			flow.Events = mergeEvents(origin.Events, lawMilestones(law))
		} else {
			flow.Events = lawMilestones(law)
		}
		flows = append(flows, flow)
	}

	for _, ini := range initiatives {
		if ini.Expediente != "" && matched[ini.Expediente] {
			continue
		}
		flows = append(flows, Flow{
			Key:        ini.Expediente,
			Initiative: ini,
			Stage:      ini.Classification.Stage,
			Events:     ini.Events,
		})
	}

	sort.SliceStable(flows, func(i, j int) bool {
		a, b := flowPresented(flows[i]), flowPresented(flows[j])
		if order == FlowOrderPresentedAsc {
			return a.Before(b)
		}
		return b.Before(a)
	})

	return flows
}

// findOrigin resolves a law's originating initiative by shared expediente or
// reference token. Best-effort: a law with no resolvable origin stays
// standalone.
func findOrigin(law *ApprovedLaw, index map[string]*Initiative) *Initiative {
	if law.Expediente != "" {
		if ini, ok := index[law.Expediente]; ok {
			return ini
		}
	}
	for _, ref := range law.OriginRefs {
		if ini, ok := index[ref]; ok {
			return ini
		}
	}
	return nil
}

func lawKey(law *ApprovedLaw) string {
	if law.LawNumber != "" {
		return law.LawNumber
	}
	return law.Expediente
}

// lawMilestones renders the law's own metadata as timeline events.
func lawMilestones(law *ApprovedLaw) []TimelineEvent {
	if law.Published == nil {
		return nil
	}
	return []TimelineEvent{{
		Label:       "Publicación",
		Start:       law.Published,
		Description: law.Title,
	}}
}

// mergeEvents combines two event lists, deduplicates, and re-sorts with the
// same ordering rules as ExtractTimeline.
func mergeEvents(a, b []TimelineEvent) []TimelineEvent {
	merged := make([]TimelineEvent, 0, len(a)+len(b))
	seen := make(map[string]bool)
	for _, event := range append(append([]TimelineEvent{}, a...), b...) {
		key := eventKey(event)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, event)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		x, y := merged[i].Start, merged[j].Start
		if x == nil {
			return false
		}
		if y == nil {
			return true
		}
		return x.Before(*y)
	})
	return merged
}

func flowPresented(flow Flow) time.Time {
	if flow.Initiative != nil && flow.Initiative.Presented != nil {
		return *flow.Initiative.Presented
	}
	if flow.Law != nil && flow.Law.Published != nil {
		return *flow.Law.Published
	}
	return time.Unix(0, 0).UTC()
}
