package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/talababa/core/books"
	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/core/markup"
	"github.com/FocuswithJustin/talababa/core/scripture"
)

// BooksGroup contains book-name operations.
type BooksGroup struct {
	List      BooksListCmd      `cmd:"" help:"List the New Testament books in order"`
	Normalize BooksNormalizeCmd `cmd:"" help:"Convert a book name or abbreviation to its dataset key"`
}

// BooksListCmd lists the canonical books.
type BooksListCmd struct{}

func (c *BooksListCmd) Run(app *App) error {
	all := books.All()
	return app.emit(all, func(w io.Writer) {
		for _, b := range all {
			fmt.Fprintf(w, "%-14s %s\n", b.Key, b.Name)
		}
	})
}

// BooksNormalizeCmd prints the dataset key for each name.
type BooksNormalizeCmd struct {
	Names []string `arg:"" help:"Book names, e.g. \"1 Cor.\""`
}

func (c *BooksNormalizeCmd) Run(app *App) error {
	keys := make(map[string]string, len(c.Names))
	for _, name := range c.Names {
		keys[name] = books.Normalize(name)
	}
	return app.emit(keys, func(w io.Writer) {
		for _, name := range c.Names {
			fmt.Fprintln(w, keys[name])
		}
	})
}

// ChapterGroup contains chapter operations.
type ChapterGroup struct {
	Show ChapterShowCmd `cmd:"" help:"Print a chapter with outlines and footnote markers"`
}

// ChapterShowCmd prints one chapter.
type ChapterShowCmd struct {
	Book       string `arg:"" help:"Book name or key"`
	Chapter    int    `arg:"" help:"Chapter number"`
	Highlights bool   `help:"Mark highlighted verses from the annotation store"`
}

type chapterView struct {
	Book        string         `json:"book"`
	Name        string         `json:"name"`
	Chapter     int            `json:"chapter"`
	Verses      []verseView    `json:"verses"`
	Highlighted map[int]string `json:"highlighted,omitempty"`
}

type verseView struct {
	Number    int                  `json:"number"`
	Text      string               `json:"text"`
	Outlines  []string             `json:"outlines,omitempty"`
	Footnotes []scripture.Footnote `json:"footnotes,omitempty"`
}

func (c *ChapterShowCmd) Run(app *App) error {
	idx, err := app.Index()
	if err != nil {
		return err
	}
	key := books.Normalize(c.Book)
	ch, ok := idx.Chapter(key, c.Chapter)
	if !ok {
		return errors.NewNotFound("chapter", fmt.Sprintf("%s %d", key, c.Chapter))
	}

	view := chapterView{Book: key, Name: books.DisplayName(key), Chapter: c.Chapter}
	for i, v := range ch.Verses {
		view.Verses = append(view.Verses, verseView{Number: i + 1, Text: v.Text, Outlines: v.Outlines, Footnotes: v.Footnotes})
	}
	if c.Highlights {
		store, err := app.Store()
		if err != nil {
			return err
		}
		// Stored indexes are 0-based.
		marked, err := store.HighlightedVerses(app.ctx, key, c.Chapter)
		if err != nil {
			return err
		}
		view.Highlighted = make(map[int]string, len(marked))
		for i, note := range marked {
			view.Highlighted[i+1] = note
		}
	}

	return app.emit(view, func(w io.Writer) {
		fmt.Fprintf(w, "%s %d\n", view.Name, view.Chapter)
		for _, v := range view.Verses {
			for _, o := range v.Outlines {
				fmt.Fprintf(w, "\n## %s\n", strings.ReplaceAll(o, "\n", " "))
			}
			mark := " "
			note, highlighted := view.Highlighted[v.Number]
			if highlighted {
				mark = "*"
			}
			fmt.Fprintf(w, "%s%3d %s\n", mark, v.Number, v.Text)
			for _, fn := range v.Footnotes {
				fmt.Fprintf(w, "      [%s] %s\n", fn.ID, fn.Word)
			}
			if note != "" {
				fmt.Fprintf(w, "      note: %s\n", note)
			}
		}
	})
}

// MarkupGroup contains markup operations.
type MarkupGroup struct {
	Parse MarkupParseCmd `cmd:"" help:"Split tagged text into styled runs"`
	Wrap  MarkupWrapCmd  `cmd:"" help:"Wrap whole-word occurrences of a word in a tag"`
}

// MarkupParseCmd prints the runs of a tagged string.
type MarkupParseCmd struct {
	Text string `arg:"" help:"Text with [b] [i] [h] [bb] tags"`
}

func (c *MarkupParseCmd) Run(app *App) error {
	runs := markup.Parse(c.Text)
	return app.emit(runs, func(w io.Writer) { writeRuns(w, runs) })
}

func writeRuns(w io.Writer, runs []markup.Run) {
	for _, r := range runs {
		styles := make([]string, len(r.Styles))
		for i, s := range r.Styles {
			styles[i] = string(s)
		}
		fmt.Fprintf(w, "%-8s %q\n", strings.Join(styles, ","), r.Content)
	}
}

// MarkupWrapCmd wraps a word in a tag.
type MarkupWrapCmd struct {
	Text  string `arg:"" help:"Input text"`
	Word  string `arg:"" help:"Word to wrap"`
	Tag   string `help:"Tag to wrap with" default:"b" enum:"b,i,h,bb"`
	First bool   `help:"Wrap only the first occurrence"`
}

func (c *MarkupWrapCmd) Run(app *App) error {
	wrap := markup.Wrap
	if c.First {
		wrap = markup.WrapFirst
	}
	out := wrap(c.Text, c.Word, markup.Style(c.Tag))
	return app.emit(map[string]string{"text": out}, func(w io.Writer) {
		fmt.Fprintln(w, out)
	})
}
