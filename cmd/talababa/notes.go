package main

import (
	"fmt"
	"io"

	"github.com/FocuswithJustin/talababa/core/books"
	"github.com/FocuswithJustin/talababa/internal/annotations"
)

// Verse numbers on the command line are 1-based; the store keeps 0-based
// verse indexes.

// NotesGroup contains highlight and note operations.
type NotesGroup struct {
	List   NotesListCmd   `cmd:"" help:"Search notes"`
	Toggle NotesToggleCmd `cmd:"" help:"Highlight a verse, or remove its highlight"`
	Save   NotesSaveCmd   `cmd:"" help:"Set the note of a verse"`
	Update NotesUpdateCmd `cmd:"" help:"Change a note's text or group"`
	Delete NotesDeleteCmd `cmd:"" help:"Delete a note and its highlight"`
}

// NotesListCmd searches notes.
type NotesListCmd struct {
	Book  string `help:"Only notes in this book"`
	Text  string `help:"Only notes containing this text"`
	Group int64  `help:"Only notes in this group"`
}

func (c *NotesListCmd) Run(app *App) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	notes, err := store.SearchNotes(app.ctx, annotations.NoteFilter{Book: c.Book, Text: c.Text, GroupID: c.Group})
	if err != nil {
		return err
	}
	return app.emit(notes, func(w io.Writer) {
		for _, n := range notes {
			fmt.Fprintf(w, "%4d  %s %d:%d  %s\n", n.ID, books.DisplayName(n.Book), n.Chapter, n.VerseIndex+1, n.Note)
		}
	})
}

// NotesToggleCmd toggles a verse highlight.
type NotesToggleCmd struct {
	Book    string `arg:"" help:"Book name or key"`
	Chapter int    `arg:"" help:"Chapter number"`
	Verse   int    `arg:"" help:"Verse number"`
}

func (c *NotesToggleCmd) Run(app *App) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	on, err := store.ToggleHighlight(app.ctx, c.Book, c.Chapter, c.Verse-1)
	if err != nil {
		return err
	}
	return app.emit(map[string]bool{"highlighted": on}, func(w io.Writer) {
		state := "removed"
		if on {
			state = "added"
		}
		fmt.Fprintf(w, "Highlight %s: %s %d:%d\n", state, books.DisplayName(books.Normalize(c.Book)), c.Chapter, c.Verse)
	})
}

// NotesSaveCmd sets the note of a verse.
type NotesSaveCmd struct {
	Book    string `arg:"" help:"Book name or key"`
	Chapter int    `arg:"" help:"Chapter number"`
	Verse   int    `arg:"" help:"Verse number"`
	Note    string `arg:"" help:"Note text"`
}

func (c *NotesSaveCmd) Run(app *App) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	id, err := store.SaveNote(app.ctx, c.Book, c.Chapter, c.Verse-1, c.Note)
	if err != nil {
		return err
	}
	return app.emit(map[string]int64{"id": id}, func(w io.Writer) {
		fmt.Fprintf(w, "Saved note %d\n", id)
	})
}

// NotesUpdateCmd rewrites a note by id.
type NotesUpdateCmd struct {
	ID    int64  `arg:"" help:"Note id"`
	Note  string `arg:"" help:"New note text"`
	Group int64  `help:"Group id, 0 for none"`
}

func (c *NotesUpdateCmd) Run(app *App) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	if err := store.UpdateNote(app.ctx, annotations.Note{ID: c.ID, Note: c.Note, GroupID: c.Group}); err != nil {
		return err
	}
	return app.emit(map[string]int64{"id": c.ID}, func(w io.Writer) {
		fmt.Fprintf(w, "Updated note %d\n", c.ID)
	})
}

// NotesDeleteCmd deletes a note.
type NotesDeleteCmd struct {
	ID int64 `arg:"" help:"Note id"`
}

func (c *NotesDeleteCmd) Run(app *App) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	if err := store.DeleteNote(app.ctx, c.ID); err != nil {
		return err
	}
	return app.emit(map[string]int64{"id": c.ID}, func(w io.Writer) {
		fmt.Fprintf(w, "Deleted note %d\n", c.ID)
	})
}

// GroupsGroup contains note group operations.
type GroupsGroup struct {
	List   GroupsListCmd   `cmd:"" help:"List note groups"`
	Save   GroupsSaveCmd   `cmd:"" help:"Create or rename a note group"`
	Delete GroupsDeleteCmd `cmd:"" help:"Delete a note group, keeping its notes"`
}

// GroupsListCmd lists note groups.
type GroupsListCmd struct{}

func (c *GroupsListCmd) Run(app *App) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	groups, err := store.Groups(app.ctx)
	if err != nil {
		return err
	}
	return app.emit(groups, func(w io.Writer) {
		for _, g := range groups {
			fmt.Fprintf(w, "%4d  %s\n", g.ID, g.Name)
		}
	})
}

// GroupsSaveCmd creates a group, or renames one with --id.
type GroupsSaveCmd struct {
	Name string `arg:"" help:"Group name"`
	ID   int64  `help:"Existing group id to rename"`
}

func (c *GroupsSaveCmd) Run(app *App) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	id, err := store.SaveGroup(app.ctx, annotations.NoteGroup{ID: c.ID, Name: c.Name})
	if err != nil {
		return err
	}
	return app.emit(map[string]int64{"id": id}, func(w io.Writer) {
		fmt.Fprintf(w, "Saved group %d\n", id)
	})
}

// GroupsDeleteCmd deletes a group.
type GroupsDeleteCmd struct {
	ID int64 `arg:"" help:"Group id"`
}

func (c *GroupsDeleteCmd) Run(app *App) error {
	store, err := app.Store()
	if err != nil {
		return err
	}
	if err := store.DeleteGroup(app.ctx, c.ID); err != nil {
		return err
	}
	return app.emit(map[string]int64{"id": c.ID}, func(w io.Writer) {
		fmt.Fprintf(w, "Deleted group %d\n", c.ID)
	})
}
