package legis

import (
	"fmt"
	"log/slog"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// DossierExtractor pulls readable text out of an initiative's official
// dossier page. The extracted text supplements the feed's narrative before
// timeline extraction, since dossier pages often carry procedural detail the
// feed summarises away.
type DossierExtractor struct{}

func NewDossierExtractor() *DossierExtractor {
	return &DossierExtractor{}
}

func (e *DossierExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("dossier HTML is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract dossier text: %w", err)
	}

	text := stripDossierBoilerplate(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no text extracted from dossier HTML")
	}

	slog.Debug("Dossier text extracted",
		"title", article.Title,
		"text_length", len(text))

	return text, nil
}

// Navigation and footer fragments that survive readability extraction on
// Congreso dossier pages. Matched against normalized lines.
var dossierBoilerplate = []string{
	"volver al listado",
	"imprimir",
	"compartir",
	"aviso legal",
	"mapa web",
	"accesibilidad",
}

// stripDossierBoilerplate drops navigation chrome lines and collapses the
// remaining text, keeping line structure for the timeline extractor.
func stripDossierBoilerplate(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if containsAny(Normalize(trimmed), dossierBoilerplate...) && len(trimmed) < 60 {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}
