package legis

// Similarity matching between initiatives' subject texts. Comparing every
// initiative against every other is O(n²·L) with L the average subject length,
// which governs batch sizing for large feeds; individual comparisons share no
// state, so callers may fan out across targets if that ever becomes a
// bottleneck.

// Algorithm converts a pair of strings into a similarity score in [0,1].
// Implementations must be symmetric.
type Algorithm interface {
	Name() string
	Similarity(a, b string) float64
}

// DefaultThreshold is the tunable score cutoff for similarity edges. The value
// is carried over from the observed source defaults; no documented rationale
// exists for it.
const DefaultThreshold = 0.6

// Match is one candidate scoring at or above the matcher threshold.
type Match struct {
	Candidate *Initiative
	Score     float64
}

// Matcher finds initiatives with similar subject matter.
type Matcher struct {
	algorithm Algorithm
	threshold float64
}

func NewMatcher(algorithm Algorithm, threshold float64) *Matcher {
	if algorithm == nil {
		algorithm = Levenshtein{}
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{algorithm: algorithm, threshold: threshold}
}

// NewAlgorithm returns the algorithm registered under the given name,
// defaulting to Levenshtein.
func NewAlgorithm(name string) Algorithm {
	switch name {
	case "jaro_winkler":
		return JaroWinkler{}
	default:
		return Levenshtein{}
	}
}

// Run compares the target's normalized subject against every other candidate
// and returns those scoring at or above the threshold, in input order. The
// target itself is excluded; empty subjects never match.
func (m *Matcher) Run(target *Initiative, pool []*Initiative) []Match {
	subject := Normalize(target.Subject)
	if subject == "" {
		return nil
	}

	var matches []Match
	for _, candidate := range pool {
		if candidate == target || candidate.Expediente == target.Expediente {
			continue
		}
		other := Normalize(candidate.Subject)
		if other == "" {
			continue
		}
		score := m.algorithm.Similarity(subject, other)
		if score >= m.threshold {
			matches = append(matches, Match{Candidate: candidate, Score: score})
		}
	}
	return matches
}

// Levenshtein scores similarity as 1 - editDistance/maxLen.
type Levenshtein struct{}

func (Levenshtein) Name() string { return "levenshtein" }

func (Levenshtein) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(ra, rb))/float64(longest)
}

// editDistance computes the Levenshtein distance with a rolling single-row
// buffer.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current := row[j]
			row[j] = min(row[j]+1, row[j-1]+1, prev+cost)
			prev = current
		}
	}
	return row[len(b)]
}

// JaroWinkler scores similarity with the Jaro distance plus the Winkler
// common-prefix bonus.
type JaroWinkler struct{}

func (JaroWinkler) Name() string { return "jaro_winkler" }

func (JaroWinkler) Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	jaro := jaroSimilarity(ra, rb)
	if jaro == 0 {
		return 0
	}

	prefix := 0
	for i := 0; i < min(len(ra), len(rb), 4); i++ {
		if ra[i] != rb[i] {
			break
		}
		prefix++
	}
	return jaro + float64(prefix)*0.1*(1.0-jaro)
}

func jaroSimilarity(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	window := max(len(a), len(b))/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(a))
	bMatched := make([]bool, len(b))
	matches := 0

	for i := range a {
		lo := max(0, i-window)
		hi := min(len(b), i+window+1)
		for j := lo; j < hi; j++ {
			if bMatched[j] || a[i] != b[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	j := 0
	for i := range a {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	return (m/float64(len(a)) + m/float64(len(b)) + (m-float64(transpositions)/2)/m) / 3
}
