package legis

import (
	"sort"
	"strings"
	"time"
)

// Stage is the canonical coarse-grained procedural phase of an initiative.
type Stage string

const (
	StageProposed  Stage = "proposed"
	StageDebating  Stage = "debating"
	StageCommittee Stage = "committee"
	StageVoting    Stage = "voting"
	StagePassed    Stage = "passed"
	StageRejected  Stage = "rejected"
	StageWithdrawn Stage = "withdrawn"
	StageClosed    Stage = "closed"
	StagePublished Stage = "published"
)

// ClassificationResult is the immutable output of stage classification.
// Signals records every heuristic signal that was evaluated, for audit;
// control flow never reads it back.
type ClassificationResult struct {
	Stage   Stage
	Step    int
	Signals map[string]bool
}

// DatedClassification pairs a classification with the date of the record it
// was derived from, for PickLatestStage.
type DatedClassification struct {
	Date   *time.Time
	Result ClassificationResult
}

// Signal names, also the keys of ClassificationResult.Signals.
const (
	sigApproved    = "approved"
	sigRejected    = "rejected"
	sigWithdrawn   = "withdrawn"
	sigPublication = "verified_publication"
	sigVoting      = "voting"
	sigCommittee   = "committee"
	sigDebate      = "debate"
	sigClosed      = "closed"
)

// stageRule maps one fired signal to a stage and step. Rules are evaluated in
// order and the first fired signal wins: terminal outcomes (approval,
// rejection, withdrawal) outrank everything weaker.
type stageRule struct {
	signal string
	stage  Stage
	step   int
}

var stageRules = []stageRule{
	{sigApproved, StagePassed, 4},
	{sigRejected, StageRejected, 2},
	{sigWithdrawn, StageWithdrawn, 1},
	{sigPublication, StagePublished, 5},
	{sigVoting, StageVoting, 4},
	{sigCommittee, StageCommittee, 3},
	{sigDebate, StageDebating, 2},
	{sigClosed, StageClosed, 1},
}

// ClassifyStage derives the canonical stage of an initiative from its raw
// procedural text fields. Deterministic and total: absent fields are treated
// as empty strings and the default is proposed/step 1.
func ClassifyStage(ini *Initiative) ClassificationResult {
	result := Normalize(ini.Status)
	situation := Normalize(ini.Situation)
	combined := strings.Join([]string{
		result,
		situation,
		Normalize(ini.Narrative),
		Normalize(ini.Committee),
		Normalize(strings.Join(ini.GazetteRefs, " ")),
	}, " ")

	signals := map[string]bool{
		sigApproved:    containsAny(result, "aprobad", "convertido en ley", "convertida en ley"),
		sigRejected:    containsAny(result, "rechazad", "no tomad"),
		sigWithdrawn:   containsAny(result, "retirad"),
		sigPublication: ini.GazetteVerified,
		sigVoting:      containsAny(combined, "votacion", "aprobacion por el pleno", "senado"),
		sigCommittee:   containsAny(combined, "comision", "ponencia", "enmiendas al articulado"),
		sigDebate:      containsAny(combined, "pleno", "toma en consideracion", "debate de totalidad"),
		sigClosed:      containsAny(situation, "cerrad", "caducad", "concluid"),
	}

	for _, rule := range stageRules {
		if signals[rule.signal] {
			return ClassificationResult{Stage: rule.stage, Step: rule.step, Signals: signals}
		}
	}

	return ClassificationResult{Stage: StageProposed, Step: 1, Signals: signals}
}

// PickLatestStage returns the classification of the most recent record among
// the given dated classifications. Records without a date sort as earliest.
// An empty input yields the default proposed/step 1 with an "empty" marker in
// the signal map.
func PickLatestStage(classifications []DatedClassification) ClassificationResult {
	if len(classifications) == 0 {
		return ClassificationResult{
			Stage:   StageProposed,
			Step:    1,
			Signals: map[string]bool{"empty": true},
		}
	}

	sorted := make([]DatedClassification, len(classifications))
	copy(sorted, classifications)
	sort.SliceStable(sorted, func(i, j int) bool {
		return classificationTime(sorted[i]).Before(classificationTime(sorted[j]))
	})

	return sorted[len(sorted)-1].Result
}

func classificationTime(c DatedClassification) time.Time {
	if c.Date == nil {
		return time.Unix(0, 0).UTC()
	}
	return *c.Date
}
