// Package query builds the SPARQL text for the fixed set of registry searches.
package query

import (
	"fmt"
	"strings"

	"rssz/models"
	"rssz/validation"
)

// Kind names one of the fixed query shapes.
type Kind string

const (
	KindDetail            Kind = "detail"
	KindName              Kind = "name"
	KindFieldOfStudy      Kind = "field"
	KindMunicipality      Kind = "municipality"
	KindTopMunicipalities Kind = "top-municipalities"
	KindTopFieldsOfStudy  Kind = "top-fields"
)

type entry struct {
	kind    Kind
	caption string
	field   string
	build   func(term string) (string, error)
}

var catalog = []entry{
	{KindName, "Vyhledat podle názvu školy", "name", ByName},
	{KindFieldOfStudy, "Vyhledat podle oboru", "field", ByFieldOfStudy},
	{KindMunicipality, "Vyhledat podle obce", "municipality", ByMunicipality},
	{KindTopMunicipalities, "Obce s nejvíce subjekty", "", func(string) (string, error) { return TopMunicipalities(), nil }},
	{KindTopFieldsOfStudy, "Obory s nejvíce subjekty", "", func(string) (string, error) { return TopFieldsOfStudy(), nil }},
	{KindDetail, "Detail subjektu", "ico", DetailByIco},
}

// Catalog lists the query kinds in display order.
func Catalog() []models.QueryKindInfo {
	infos := make([]models.QueryKindInfo, 0, len(catalog))
	for _, e := range catalog {
		infos = append(infos, models.QueryKindInfo{
			Kind:      string(e.kind),
			Caption:   e.caption,
			NeedsTerm: e.field != "",
			Field:     e.field,
		})
	}
	return infos
}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, error) {
	for _, e := range catalog {
		if string(e.kind) == s {
			return e.kind, nil
		}
	}
	return "", &validation.Error{Field: "kind", Code: validation.CodeUnknownKind, Reason: fmt.Sprintf("unknown query kind %q", s)}
}

// Build produces the query text for kind. Kinds without a term ignore it.
func Build(kind Kind, term string) (string, error) {
	for _, e := range catalog {
		if e.kind == kind {
			return e.build(term)
		}
	}
	return "", &validation.Error{Field: "kind", Code: validation.CodeUnknownKind, Reason: fmt.Sprintf("unknown query kind %q", kind)}
}

// DetailByIco returns the detail query for one registration number.
func DetailByIco(ico string) (string, error) {
	id, err := validation.Identifier("ico", ico)
	if err != nil {
		return "", err
	}
	return Prefix + fmt.Sprintf(detailByIcoTemplate, EscapeLiteral(id)), nil
}

func ByName(term string) (string, error) {
	return searchQuery("name", term, byNameTemplate)
}

func ByFieldOfStudy(term string) (string, error) {
	return searchQuery("field", term, byFieldOfStudyTemplate)
}

func ByMunicipality(term string) (string, error) {
	return searchQuery("municipality", term, byMunicipalityTemplate)
}

func TopMunicipalities() string {
	return Prefix + fmt.Sprintf(topMunicipalitiesTemplate, AggregatedResultsLimit)
}

func TopFieldsOfStudy() string {
	return Prefix + fmt.Sprintf(topFieldsOfStudyTemplate, AggregatedResultsLimit)
}

func searchQuery(field, term, template string) (string, error) {
	normalized, err := validation.SearchTerm(field, term)
	if err != nil {
		return "", err
	}
	return Prefix + fmt.Sprintf(template, EscapeLiteral(normalized), SearchResultsLimit), nil
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// EscapeLiteral escapes s for use inside a double-quoted SPARQL string literal.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
