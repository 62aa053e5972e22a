package legis

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Parser converts Congreso open-data XML documents into plain records. Field
// handling is lenient: missing or malformed values become zero values and
// never abort the batch. Only a non-conforming document shape is an error.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

type rawInitiative struct {
	Expediente     string `xml:"NUMEXPEDIENTE"`
	Type           string `xml:"TIPO"`
	Subject        string `xml:"OBJETO"`
	Author         string `xml:"AUTOR"`
	Presented      string `xml:"FECHAPRESENTACION"`
	Qualified      string `xml:"FECHACALIFICACION"`
	Legislature    string `xml:"LEGISLATURA"`
	ProcessingMode string `xml:"TIPOTRAMITACION"`
	Status         string `xml:"RESULTADOTRAMITACION"`
	Situation      string `xml:"SITUACIONACTUAL"`
	Narrative      string `xml:"TRAMITACIONSEGUIDA"`
	Committee      string `xml:"COMISIONCOMPETENTE"`
	RelatedRefs    string `xml:"INICIATIVASRELACIONADAS"`
	OriginRefs     string `xml:"INICIATIVASDEORIGEN"`
	GazetteBOE     string `xml:"ENLACESBOE"`
	GazetteBOCG    string `xml:"ENLACESBOCG"`
}

type rawInitiativeDoc struct {
	XMLName     xml.Name        `xml:"resultados"`
	Initiatives []rawInitiative `xml:"iniciativa"`
}

type rawLaw struct {
	Expediente  string `xml:"NUMEXPEDIENTE"`
	Type        string `xml:"TIPO"`
	LawNumber   string `xml:"LEY"`
	Title       string `xml:"TITULO"`
	FinalStatus string `xml:"ESTADOFINAL"`
	Published   string `xml:"FECHAPUBLICACION"`
	Legislature string `xml:"LEGISLATURA"`
	OriginRefs  string `xml:"INICIATIVASDEORIGEN"`
	GazetteBOE  string `xml:"ENLACESBOE"`
}

type rawLawDoc struct {
	XMLName xml.Name `xml:"leyes"`
	Laws    []rawLaw `xml:"ley"`
}

// ParseInitiatives decodes an initiatives feed document. A document whose top
// level is not <resultados> is a structural feed error and fails fast.
func (p *Parser) ParseInitiatives(data []byte) ([]Initiative, error) {
	var doc rawInitiativeDoc
	if err := decodeStrictRoot(data, &doc, "resultados"); err != nil {
		return nil, err
	}

	initiatives := make([]Initiative, 0, len(doc.Initiatives))
	for _, raw := range doc.Initiatives {
		initiatives = append(initiatives, Initiative{
			Expediente:     strings.TrimSpace(raw.Expediente),
			Type:           strings.TrimSpace(raw.Type),
			Subject:        strings.TrimSpace(raw.Subject),
			Author:         strings.TrimSpace(raw.Author),
			Presented:      parseFeedDate(raw.Presented),
			Qualified:      parseFeedDate(raw.Qualified),
			Legislature:    strings.TrimSpace(raw.Legislature),
			ProcessingMode: strings.TrimSpace(raw.ProcessingMode),
			Status:         strings.TrimSpace(raw.Status),
			Situation:      strings.TrimSpace(raw.Situation),
			Narrative:      strings.TrimSpace(raw.Narrative),
			Committee:      strings.TrimSpace(raw.Committee),
			RelatedRefs:    splitRefs(raw.RelatedRefs),
			OriginRefs:     splitRefs(raw.OriginRefs),
			GazetteRefs:    splitRefs(raw.GazetteBOE + ";" + raw.GazetteBOCG),
		})
	}
	return initiatives, nil
}

// ParseLaws decodes an approved-laws feed document rooted at <leyes>.
func (p *Parser) ParseLaws(data []byte) ([]ApprovedLaw, error) {
	var doc rawLawDoc
	if err := decodeStrictRoot(data, &doc, "leyes"); err != nil {
		return nil, err
	}

	laws := make([]ApprovedLaw, 0, len(doc.Laws))
	for _, raw := range doc.Laws {
		laws = append(laws, ApprovedLaw{
			Expediente:  strings.TrimSpace(raw.Expediente),
			Type:        strings.TrimSpace(raw.Type),
			LawNumber:   strings.TrimSpace(raw.LawNumber),
			Year:        lawYear(raw.LawNumber),
			Title:       strings.TrimSpace(raw.Title),
			FinalStatus: strings.TrimSpace(raw.FinalStatus),
			Published:   parseFeedDate(raw.Published),
			Legislature: strings.TrimSpace(raw.Legislature),
			OriginRefs:  splitRefs(raw.OriginRefs),
			GazetteRefs: splitRefs(raw.GazetteBOE),
		})
	}
	return laws, nil
}

// decodeStrictRoot unmarshals and rejects documents whose root element does
// not match, so garbage input is reported instead of silently classified.
func decodeStrictRoot(data []byte, v any, root string) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("failed to read feed document: %w", err)
		}
		if start, ok := token.(xml.StartElement); ok {
			if start.Name.Local != root {
				return fmt.Errorf("unexpected feed document root <%s>, want <%s>", start.Name.Local, root)
			}
			if err := decoder.DecodeElement(v, &start); err != nil {
				return fmt.Errorf("failed to decode feed document: %w", err)
			}
			return nil
		}
	}
}

// parseFeedDate parses a DD/MM/YYYY feed date, returning nil on malformed
// input.
func parseFeedDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2/1/2006", s, time.UTC)
	if err != nil {
		slog.Debug("Malformed feed date ignored", "value", s)
		return nil
	}
	return &t
}

// splitRefs splits a semicolon- or comma-separated reference list.
func splitRefs(s string) []string {
	var refs []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part != "" {
			refs = append(refs, part)
		}
	}
	return refs
}

// lawYear extracts the year from a law number such as "15/2022".
func lawYear(lawNumber string) int {
	parts := strings.Split(strings.TrimSpace(lawNumber), "/")
	if len(parts) != 2 {
		return 0
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	return year
}
