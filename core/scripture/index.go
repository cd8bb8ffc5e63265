package scripture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FocuswithJustin/talababa/core/books"
	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/core/markup"
)

// Index is an immutable book -> chapter -> Chapter lookup table.
type Index struct {
	books  map[string]map[int]*Chapter
	order  []string
	digest string
}

// NewIndex builds an index over chapters keyed by book key and chapter
// number. Book keys must already be normalized and each book's chapters must
// run from 1 without gaps.
func NewIndex(chapters map[string]map[int]*Chapter) (*Index, error) {
	idx := &Index{books: make(map[string]map[int]*Chapter, len(chapters))}

	for key, byNumber := range chapters {
		if key == "" || books.Normalize(key) != key {
			return nil, errors.NewValidation("book", key, "book key is not normalized")
		}
		copied := make(map[int]*Chapter, len(byNumber))
		for n := 1; n <= len(byNumber); n++ {
			ch, ok := byNumber[n]
			if !ok || ch == nil {
				return nil, errors.NewValidation("chapter", fmt.Sprintf("%s %d", key, n), "chapters must be contiguous from 1")
			}
			if ch.Number != 0 && ch.Number != n {
				return nil, errors.NewValidation("chapter", fmt.Sprintf("%s %d", key, n), fmt.Sprintf("record is numbered %d", ch.Number))
			}
			rec := *ch
			rec.Number = n
			copied[n] = &rec
		}
		idx.books[key] = copied
		idx.order = append(idx.order, key)
	}

	sort.Slice(idx.order, func(i, j int) bool {
		pi, iok := books.Position(idx.order[i])
		pj, jok := books.Position(idx.order[j])
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return idx.order[i] < idx.order[j]
		}
	})
	return idx, nil
}

// Books returns the book keys in canonical order. Books outside the canon
// sort last, alphabetically.
func (idx *Index) Books() []string {
	return append([]string(nil), idx.order...)
}

// ChapterCount returns the number of chapters loaded for book.
func (idx *Index) ChapterCount(book string) int {
	return len(idx.books[book])
}

// Chapter returns chapter n of book. The record is shared and must not be
// modified.
func (idx *Index) Chapter(book string, n int) (*Chapter, bool) {
	ch, ok := idx.books[book][n]
	return ch, ok
}

// Verse returns verse v of book chapter ch.
func (idx *Index) Verse(book string, ch, v int) (*Verse, bool) {
	chapter, ok := idx.Chapter(book, ch)
	if !ok {
		return nil, false
	}
	return chapter.Verse(v)
}

// FootnoteText returns the raw body of footnote id in book chapter ch.
func (idx *Index) FootnoteText(book string, ch int, id string) (string, bool) {
	chapter, ok := idx.Chapter(book, ch)
	if !ok {
		return "", false
	}
	ref, ok := chapter.Reference(id)
	return ref.Text, ok
}

// Digest returns the BLAKE3 digest of the documents the index was loaded
// from, or "" for an index built in memory.
func (idx *Index) Digest() string {
	return idx.digest
}

// FootnoteDetail is a footnote located in the dataset.
type FootnoteDetail struct {
	Book      string
	Chapter   int
	Verse     int
	ID        string
	Word      string
	VerseText string
	Body      string
}

// LookupFootnote finds footnote id in book chapter. A missing book, chapter,
// verse, verse footnote, or chapter reference is a miss, as is an id that is
// not of the form "<verse>-<n>".
func (idx *Index) LookupFootnote(book string, chapter int, id string) (*FootnoteDetail, bool) {
	ch, ok := idx.Chapter(book, chapter)
	if !ok {
		return nil, false
	}
	fid, err := ParseFootnoteID(id)
	if err != nil {
		return nil, false
	}
	verse, ok := ch.Verse(fid.Verse)
	if !ok {
		return nil, false
	}
	fn, ok := verse.Footnote(id)
	if !ok {
		return nil, false
	}
	ref, ok := ch.Reference(id)
	if !ok {
		return nil, false
	}
	return &FootnoteDetail{
		Book:      book,
		Chapter:   chapter,
		Verse:     fid.Verse,
		ID:        id,
		Word:      fn.Word,
		VerseText: verse.Text,
		Body:      ref.Text,
	}, true
}

// Title renders the heading shown above an inlined footnote. point is the
// optional qualifier captured from the citation ("punto 2,"); commas are
// dropped from it.
func (d *FootnoteDetail) Title(point string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[b]Talababa sa %s %d:%d", books.DisplayName(d.Book), d.Chapter, d.Verse)
	if p := strings.TrimSpace(strings.ReplaceAll(point, ",", "")); p != "" {
		sb.WriteString(", ")
		sb.WriteString(p)
	}
	sb.WriteString(":[/b]\n[i]")
	sb.WriteString(markup.Wrap(d.VerseText, strings.TrimRight(d.Word, ",;):"), markup.Word))
	sb.WriteString("[/i]")
	return sb.String()
}
