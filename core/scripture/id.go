package scripture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// FootnoteID is a parsed "<verse>-<n>" footnote id.
type FootnoteID struct {
	Verse    int
	Sequence int
}

// String returns the canonical "<verse>-<n>" form.
func (id FootnoteID) String() string {
	return fmt.Sprintf("%d-%d", id.Verse, id.Sequence)
}

//nolint:govet // participle grammar tags are not standard struct tags
type footnoteIDGrammar struct {
	Verse    string `parser:"@Int \"-\""`
	Sequence string `parser:"@Int"`
}

var footnoteIDLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Dash", Pattern: `-`},
})

var footnoteIDParser = participle.MustBuild[footnoteIDGrammar](
	participle.Lexer(footnoteIDLexer),
)

// ParseFootnoteID parses a footnote id such as "12-3".
func ParseFootnoteID(s string) (FootnoteID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FootnoteID{}, fmt.Errorf("empty footnote id")
	}
	parsed, err := footnoteIDParser.ParseString("", s)
	if err != nil {
		return FootnoteID{}, fmt.Errorf("invalid footnote id %q: %w", s, err)
	}
	// Captured as strings: a leading zero must stay decimal.
	verse, err := strconv.Atoi(parsed.Verse)
	if err != nil {
		return FootnoteID{}, fmt.Errorf("invalid footnote id %q: %w", s, err)
	}
	seq, err := strconv.Atoi(parsed.Sequence)
	if err != nil {
		return FootnoteID{}, fmt.Errorf("invalid footnote id %q: %w", s, err)
	}
	return FootnoteID{Verse: verse, Sequence: seq}, nil
}
