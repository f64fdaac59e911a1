package query

const (
	Prefix = "PREFIX msmt: <http://msmt.cz/>\n"

	SearchResultsLimit     = 250
	AggregatedResultsLimit = 50
)

const detailByIcoTemplate = `
SELECT ?ico ?nazevSkoly ?kraj ?obec ?psc ?ulice ?cislo
WHERE {
    ?sub msmt:ico "%s" ;
        msmt:ico ?ico ;
        msmt:uplnyNazev ?nazevSkoly ;
        msmt:adresa ?a .

    OPTIONAL { ?sub msmt:kraj ?kraj . }
    OPTIONAL { ?a msmt:obec ?obec . }
    OPTIONAL { ?a msmt:psc ?psc . }
    OPTIONAL { ?a msmt:ulice ?ulice . }
    OPTIONAL { ?a msmt:cisloDomovni ?cislo . }
}
GROUP BY ?ico ?nazevSkoly ?kraj ?obec ?psc ?ulice ?cislo`

const byNameTemplate = `
SELECT ?ico ?nazevSkoly ?obec
WHERE {
    ?sub msmt:ico ?ico ;
        msmt:uplnyNazev ?nazevSkoly ;
        msmt:adresa ?a .
    ?a msmt:obec ?obec .

    FILTER(CONTAINS(LCASE(STR(?nazevSkoly)), "%s"))
}
ORDER BY ?nazevSkoly
LIMIT %d`

const byFieldOfStudyTemplate = `
SELECT DISTINCT ?ico ?nazevSkoly ?obec ?typSkoly ?oborKod ?oborNazev
WHERE {
    ?sub msmt:ico ?ico ;
        msmt:uplnyNazev ?nazevSkoly ;
        msmt:adresa ?a ;
        msmt:skolyAZarizeni ?skola .
    ?a msmt:obec ?obec .

    OPTIONAL { ?skola msmt:uplnyNazev ?typSkoly . }

    ?skola msmt:obory ?obor .
    ?obor msmt:kod ?oborKod ;
        msmt:nazev ?oborNazev .

    FILTER(CONTAINS(LCASE(STR(?oborNazev)), "%s"))
}
ORDER BY ?nazevSkoly ?typSkoly ?oborNazev
LIMIT %d`

const byMunicipalityTemplate = `
SELECT DISTINCT ?ico ?nazevSkoly ?obec ?typSkoly
WHERE {
    ?sub msmt:ico ?ico ;
        msmt:uplnyNazev ?nazevSkoly ;
        msmt:adresa ?a ;
        msmt:skolyAZarizeni ?skola .
    ?a msmt:obec ?obec .

    OPTIONAL { ?skola msmt:uplnyNazev ?typSkoly . }

    FILTER(CONTAINS(LCASE(STR(?obec)), "%s"))
}
ORDER BY ?nazevSkoly ?typSkoly
LIMIT %d`

const topMunicipalitiesTemplate = `
SELECT ?obec (COUNT(DISTINCT ?sub) AS ?pocetSubjektu)
WHERE {
    ?sub msmt:ico ?ico ;
        msmt:adresa ?a .
    ?a msmt:obec ?obec .
}
GROUP BY ?obec
ORDER BY DESC(?pocetSubjektu)
LIMIT %d`

const topFieldsOfStudyTemplate = `
SELECT ?nazev (COUNT(*) AS ?pocet)
WHERE {
    ?sub msmt:skolyAZarizeni ?skola .
    ?skola msmt:obory ?obor .
    ?obor msmt:nazev ?nazev .
}
GROUP BY ?nazev
ORDER BY DESC(?pocet)
LIMIT %d`
