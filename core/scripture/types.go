// Package scripture holds the read-only scripture dataset: books, chapters,
// verses, and the footnotes attached to them.
package scripture

// Footnote ties a word in a verse to a footnote id.
type Footnote struct {
	Word string `json:"word"`
	ID   string `json:"id"`
}

// FootnoteReference is the body of a footnote, stored once per chapter.
type FootnoteReference struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Verse is one verse of a chapter. Outlines are the section headings that
// precede it, if any.
type Verse struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Footnotes []Footnote `json:"footnotes"`
	Outlines  []string   `json:"outlines"`
}

// Footnote returns the footnote with the given id.
func (v *Verse) Footnote(id string) (Footnote, bool) {
	for _, fn := range v.Footnotes {
		if fn.ID == id {
			return fn, true
		}
	}
	return Footnote{}, false
}

// Chapter is one chapter of a book. Verses[0] is verse 1.
type Chapter struct {
	Number             int                 `json:"-"`
	Verses             []Verse             `json:"verses"`
	FootnoteReferences []FootnoteReference `json:"footnoteReferences"`
}

// Reference returns the footnote body with the given id.
func (c *Chapter) Reference(id string) (FootnoteReference, bool) {
	for _, ref := range c.FootnoteReferences {
		if ref.ID == id {
			return ref, true
		}
	}
	return FootnoteReference{}, false
}

// Verse returns verse n (1-based).
func (c *Chapter) Verse(n int) (*Verse, bool) {
	if n < 1 || n > len(c.Verses) {
		return nil, false
	}
	return &c.Verses[n-1], true
}
