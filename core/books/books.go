// Package books maps the book names found in citations and user input to the
// lowercase hyphenated keys the scripture dataset is indexed by.
package books

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Book is one New Testament book in canonical order.
type Book struct {
	Key  string // dataset key, e.g. "1-corinto"
	Name string // display name, e.g. "1 Corinto"
}

var canon = []Book{
	{"mateo", "Mateo"},
	{"marcos", "Marcos"},
	{"lucas", "Lucas"},
	{"juan", "Juan"},
	{"mga-gawa", "Mga Gawa"},
	{"roma", "Roma"},
	{"1-corinto", "1 Corinto"},
	{"2-corinto", "2 Corinto"},
	{"galacia", "Galacia"},
	{"efeso", "Efeso"},
	{"filipos", "Filipos"},
	{"colosas", "Colosas"},
	{"1-tesalonica", "1 Tesalonica"},
	{"2-tesalonica", "2 Tesalonica"},
	{"1-timoteo", "1 Timoteo"},
	{"2-timoteo", "2 Timoteo"},
	{"tito", "Tito"},
	{"filemon", "Filemon"},
	{"hebreo", "Hebreo"},
	{"santiago", "Santiago"},
	{"1-pedro", "1 Pedro"},
	{"2-pedro", "2 Pedro"},
	{"1-juan", "1 Juan"},
	{"2-juan", "2 Juan"},
	{"3-juan", "3 Juan"},
	{"judas", "Judas"},
	{"apocalipsis", "Apocalipsis"},
}

var position = func() map[string]int {
	m := make(map[string]int, len(canon))
	for i, b := range canon {
		m[b.Key] = i
	}
	return m
}()

// aliases maps citation abbreviations to full book names. Lookups are exact:
// "1 Cor." and "1 Cor" are separate entries.
//
// Both "2 Tes" forms resolve to "1 Tesalonica". That is how the mapping was
// observed in the published reader; it is kept until the intended target is
// confirmed.
var aliases = map[string]string{
	"Mat.":   "Mateo",
	"Mar.":   "Marcos",
	"Luc.":   "Lucas",
	"1 Cor.": "1 Corinto",
	"2 Cor.": "2 Corinto",
	"Gal.":   "Galacia",
	"Efe.":   "Efeso",
	"Fil.":   "Filipos",
	"Col.":   "Colosas",
	"1 Tes.": "1 Tesalonica",
	"2 Tes.": "1 Tesalonica",
	"1 Tim.": "1 Timoteo",
	"2 Tim.": "2 Timoteo",
	"Heb.":   "Hebreo",
	"Sant.":  "Santiago",
	"1 Ped.": "1 Pedro",
	"2 Ped.": "2 Pedro",
	"Jud.":   "Judas",
	"Apoc.":  "Apocalipsis",
	"Mat":    "Mateo",
	"Mar":    "Marcos",
	"Luc":    "Lucas",
	"1 Cor":  "1 Corinto",
	"2 Cor":  "2 Corinto",
	"Gal":    "Galacia",
	"Efe":    "Efeso",
	"Fil":    "Filipos",
	"Col":    "Colosas",
	"1 Tes":  "1 Tesalonica",
	"2 Tes":  "1 Tesalonica",
	"1 Tim":  "1 Timoteo",
	"2 Tim":  "2 Timoteo",
	"Heb":    "Hebreo",
	"Sant":   "Santiago",
	"1 Ped":  "1 Pedro",
	"2 Ped":  "2 Pedro",
	"Jud":    "Judas",
	"Apoc":   "Apocalipsis",
}

var whitespace = regexp.MustCompile(`\s+`)

// Expand returns the full name for a known abbreviation, or name unchanged.
func Expand(name string) string {
	if full, ok := aliases[name]; ok {
		return full
	}
	return name
}

// Normalize converts a book name or abbreviation to its dataset key:
// abbreviations are expanded, then the result is lowercased and each run of
// whitespace becomes a single hyphen. Unknown names pass through the same
// lowercase/hyphen step, so Normalize is idempotent.
func Normalize(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(Expand(name)), "-")
}

// DisplayName returns the human-readable name for a dataset key. Keys outside
// the canon are title-cased with hyphens read as spaces.
func DisplayName(key string) string {
	if i, ok := position[key]; ok {
		return canon[i].Name
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(key, "-", " "))
}

// Position returns the canonical index of key (0 for "mateo").
func Position(key string) (int, bool) {
	i, ok := position[key]
	return i, ok
}

// Known reports whether key is one of the 27 canonical books.
func Known(key string) bool {
	_, ok := position[key]
	return ok
}

// All returns the canonical books in order. The slice is a copy.
func All() []Book {
	out := make([]Book, len(canon))
	copy(out, canon)
	return out
}
