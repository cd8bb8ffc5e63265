// Package markup implements the bracket-tag markup footnote text is rendered
// with: [b]bold[/b], [i]italic[/i], [h]highlight[/h], and [bb]…[/bb] for the
// annotated word inside a quoted verse.
package markup

import (
	"regexp"

	"github.com/alecthomas/participle/v2/lexer"
)

// Style is a tag name and the style it applies.
type Style string

const (
	Bold      Style = "b"
	Italic    Style = "i"
	Highlight Style = "h"
	// Word marks the annotated word in a footnote title.
	Word Style = "bb"
)

// Run is a span of text with the styles open at that point, outermost first.
type Run struct {
	Content string  `json:"content"`
	Styles  []Style `json:"styles"`
}

// Has reports whether s applies to the run.
func (r Run) Has(s Style) bool {
	for _, have := range r.Styles {
		if have == s {
			return true
		}
	}
	return false
}

// Open returns the opening tag for s.
func (s Style) Open() string { return "[" + string(s) + "]" }

// Close returns the closing tag for s.
func (s Style) Close() string { return "[/" + string(s) + "]" }

// wordPattern matches word on ASCII word boundaries. An empty word has no
// pattern.
func wordPattern(word string) *regexp.Regexp {
	if word == "" {
		return nil
	}
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
}

// Wrap surrounds every whole-word occurrence of word in input with tag.
// "Salitang" does not match "Salita".
func Wrap(input, word string, tag Style) string {
	re := wordPattern(word)
	if re == nil {
		return input
	}
	return re.ReplaceAllLiteralString(input, tag.Open()+word+tag.Close())
}

// WrapFirst is Wrap limited to the first occurrence.
func WrapFirst(input, word string, tag Style) string {
	re := wordPattern(word)
	if re == nil {
		return input
	}
	loc := re.FindStringIndex(input)
	if loc == nil {
		return input
	}
	return input[:loc[0]] + tag.Open() + word + tag.Close() + input[loc[1]:]
}

// tagLexer splits markup into tags and text. Any "[" that does not start a
// known tag is text, so every input lexes.
var tagLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Open", Pattern: `\[(?:bb|b|i|h)\]`},
	{Name: "Close", Pattern: `\[/(?:bb|b|i|h)\]`},
	{Name: "Text", Pattern: `[^\[]+|\[`},
})

var (
	openToken  = tagLexer.Symbols()["Open"]
	closeToken = tagLexer.Symbols()["Close"]
)

// Parse splits input into styled runs in a single left-to-right pass.
// Opening tags push onto a stack, closing tags pop the most recent one
// whatever its name, and each text span between tags becomes a run carrying
// a copy of the stack. Unclosed tags stay open to the end of input, stray
// closing tags are ignored, and adjacent text is merged into one run.
func Parse(input string) []Run {
	runs := []Run{}
	if input == "" {
		return runs
	}

	lex, err := tagLexer.LexString("", input)
	if err != nil {
		return []Run{{Content: input, Styles: []Style{}}}
	}

	var (
		stack    []Style
		pending  []byte
		consumed int
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		runs = append(runs, Run{Content: string(pending), Styles: append([]Style{}, stack...)})
		pending = pending[:0]
	}

	for {
		tok, err := lex.Next()
		if err != nil {
			// Unreachable with the Text fallback rule; keep the rest verbatim.
			pending = append(pending, input[consumed:]...)
			break
		}
		if tok.EOF() {
			break
		}
		consumed += len(tok.Value)
		switch tok.Type {
		case openToken:
			flush()
			stack = append(stack, Style(tok.Value[1:len(tok.Value)-1]))
		case closeToken:
			flush()
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			pending = append(pending, tok.Value...)
		}
	}
	flush()
	return runs
}
