package legis

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// GazetteReader parses the official gazette (BOE) RSS feed and answers
// whether a record's gazette references have actually been published. This is
// the one non-heuristic signal in stage classification: publication is
// verified against the gazette itself, never inferred from narrative text.
type GazetteReader struct {
	parser *gofeed.Parser
}

func NewGazetteReader() *GazetteReader {
	return &GazetteReader{parser: gofeed.NewParser()}
}

// boeIDPattern matches official gazette document identifiers like
// "BOE-A-2024-12345".
var boeIDPattern = regexp.MustCompile(`BOE-[A-Z]-\d{4}-\d+`)

// Run parses gazette feed data and returns the set of published document
// identifiers found in item links and GUIDs.
func (r *GazetteReader) Run(data []byte) (map[string]bool, error) {
	feed, err := r.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gazette feed: %w", err)
	}

	published := make(map[string]bool)
	for _, item := range feed.Items {
		for _, id := range boeIDPattern.FindAllString(item.Link+" "+item.GUID+" "+item.Title, -1) {
			published[id] = true
		}
	}
	return published, nil
}

// VerifyPublication reports whether any of the record's gazette references
// appears in the published identifier set.
func VerifyPublication(gazetteRefs []string, published map[string]bool) bool {
	for _, ref := range gazetteRefs {
		for _, id := range boeIDPattern.FindAllString(strings.ToUpper(ref), -1) {
			if published[id] {
				return true
			}
		}
	}
	return false
}
