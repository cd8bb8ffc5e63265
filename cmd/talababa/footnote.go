package main

import (
	"fmt"
	"io"

	"github.com/FocuswithJustin/talababa/core/books"
	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/core/footnote"
	"github.com/FocuswithJustin/talababa/core/markup"
)

// FootnoteGroup contains footnote operations.
type FootnoteGroup struct {
	Show    FootnoteShowCmd    `cmd:"" help:"Show a footnote with its cross-references expanded"`
	Chapter FootnoteChapterCmd `cmd:"" help:"Show every footnote of a chapter"`
	Resolve FootnoteResolveCmd `cmd:"" help:"Expand the cross-references in arbitrary footnote text"`
}

type footnoteView struct {
	Book    string       `json:"book"`
	Chapter int          `json:"chapter"`
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Text    string       `json:"text"`
	Runs    []markup.Run `json:"runs"`
}

func (v footnoteView) write(w io.Writer, runs bool) {
	if runs {
		writeRuns(w, v.Runs)
		return
	}
	fmt.Fprintf(w, "%s\n\n%s\n", v.Title, v.Text)
}

// showFootnote looks up and resolves one footnote.
func showFootnote(app *App, r *footnote.Resolver, book string, chapter int, id string) (footnoteView, error) {
	idx, err := app.Index()
	if err != nil {
		return footnoteView{}, err
	}
	detail, ok := idx.LookupFootnote(book, chapter, id)
	if !ok {
		return footnoteView{}, errors.NewNotFound("footnote", fmt.Sprintf("%s %d %s", book, chapter, id))
	}
	text, err := r.ResolveFootnote(detail.Body, book, chapter, id)
	if err != nil {
		return footnoteView{}, err
	}
	title := detail.Title("")
	return footnoteView{
		Book:    book,
		Chapter: chapter,
		ID:      id,
		Title:   title,
		Text:    text,
		Runs:    markup.Parse(title + "\n\n" + text),
	}, nil
}

// FootnoteShowCmd shows one footnote the way the reader displays it.
type FootnoteShowCmd struct {
	Book     string `arg:"" help:"Book name or key"`
	Chapter  int    `arg:"" help:"Chapter number"`
	ID       string `arg:"" help:"Footnote id, e.g. 3-2"`
	Runs     bool   `help:"Print styled runs instead of tagged text"`
	MaxDepth int    `name:"max-depth" help:"Recursion limit" default:"50"`
}

func (c *FootnoteShowCmd) Run(app *App) error {
	r, err := app.Resolver(c.MaxDepth)
	if err != nil {
		return err
	}
	view, err := showFootnote(app, r, books.Normalize(c.Book), c.Chapter, c.ID)
	if err != nil {
		return err
	}
	return app.emit(view, func(w io.Writer) { view.write(w, c.Runs) })
}

// FootnoteChapterCmd shows every footnote of a chapter in verse order.
type FootnoteChapterCmd struct {
	Book     string `arg:"" help:"Book name or key"`
	Chapter  int    `arg:"" help:"Chapter number"`
	MaxDepth int    `name:"max-depth" help:"Recursion limit" default:"50"`
}

func (c *FootnoteChapterCmd) Run(app *App) error {
	r, err := app.Resolver(c.MaxDepth)
	if err != nil {
		return err
	}
	idx, err := app.Index()
	if err != nil {
		return err
	}
	key := books.Normalize(c.Book)
	ch, ok := idx.Chapter(key, c.Chapter)
	if !ok {
		return errors.NewNotFound("chapter", fmt.Sprintf("%s %d", key, c.Chapter))
	}

	var views []footnoteView
	for _, v := range ch.Verses {
		for _, fn := range v.Footnotes {
			view, err := showFootnote(app, r, key, c.Chapter, fn.ID)
			if errors.Is(err, errors.ErrNotFound) {
				// Marker without a chapter-level body.
				continue
			}
			if err != nil {
				return err
			}
			views = append(views, view)
		}
	}
	return app.emit(views, func(w io.Writer) {
		for i, v := range views {
			if i > 0 {
				fmt.Fprintln(w, "---")
			}
			v.write(w, false)
		}
	})
}

// FootnoteResolveCmd expands arbitrary text as if it were a footnote body.
type FootnoteResolveCmd struct {
	Text     string `arg:"" help:"Footnote text"`
	Book     string `required:"" help:"Book the text belongs to"`
	Chapter  int    `required:"" help:"Chapter the text belongs to"`
	ID       string `help:"Id of the footnote the text belongs to, if any"`
	Runs     bool   `help:"Print styled runs instead of tagged text"`
	MaxDepth int    `name:"max-depth" help:"Recursion limit" default:"50"`
}

func (c *FootnoteResolveCmd) Run(app *App) error {
	r, err := app.Resolver(c.MaxDepth)
	if err != nil {
		return err
	}
	var out string
	if c.ID != "" {
		out, err = r.ResolveFootnote(c.Text, c.Book, c.Chapter, c.ID)
	} else {
		out, err = r.Resolve(c.Text, footnote.Context{Book: c.Book, Chapter: c.Chapter})
	}
	if err != nil {
		return err
	}
	runs := markup.Parse(out)
	return app.emit(map[string]any{"text": out, "runs": runs}, func(w io.Writer) {
		if c.Runs {
			writeRuns(w, runs)
			return
		}
		fmt.Fprintln(w, out)
	})
}
