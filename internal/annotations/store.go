// Package annotations stores the reader's highlighted verses, the notes
// attached to them, and the groups notes are filed under.
//
// A row in notes means the verse is highlighted. Its note text may be empty.
package annotations

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/FocuswithJustin/talababa/core/books"
	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/core/sqlite"
	"github.com/FocuswithJustin/talababa/internal/logging"
)

const schema = `
	CREATE TABLE IF NOT EXISTS note_groups (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY,
		book TEXT NOT NULL,
		chapter INTEGER NOT NULL,
		verse_index INTEGER NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		note_group_id INTEGER REFERENCES note_groups(id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_verse ON notes(book, chapter, verse_index);
	CREATE INDEX IF NOT EXISTS idx_notes_group ON notes(note_group_id);
`

// Note is a highlighted verse and its note. VerseIndex is 0-based.
// GroupID 0 means the note is not filed under a group.
type Note struct {
	ID         int64  `json:"id"`
	Book       string `json:"book"`
	Chapter    int    `json:"chapter"`
	VerseIndex int    `json:"verse_index"`
	Note       string `json:"note"`
	GroupID    int64  `json:"group_id,omitempty"`
}

// NoteGroup is a named category for notes.
type NoteGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NoteFilter narrows SearchNotes. Zero fields do not filter.
type NoteFilter struct {
	Book    string
	Text    string
	GroupID int64
}

// Store is the annotation database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the annotation database at path.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the tables if needed.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize annotation schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func checkVerse(book string, chapter, verseIndex int) (string, error) {
	key := books.Normalize(strings.TrimSpace(book))
	if key == "" {
		return "", errors.NewValidation("book", book, "book is required")
	}
	if chapter < 1 {
		return "", errors.NewValidation("chapter", chapter, "chapter must be at least 1")
	}
	if verseIndex < 0 {
		return "", errors.NewValidation("verse_index", verseIndex, "verse index must not be negative")
	}
	return key, nil
}

// HighlightedVerses returns the highlighted verses of a chapter, keyed by
// verse index, with their note text.
func (s *Store) HighlightedVerses(ctx context.Context, book string, chapter int) (map[int]string, error) {
	key, err := checkVerse(book, chapter, 0)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT verse_index, note FROM notes WHERE book = ? AND chapter = ?`, key, chapter)
	if err != nil {
		return nil, fmt.Errorf("failed to query highlights: %w", err)
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var (
			idx  int
			note string
		)
		if err := rows.Scan(&idx, &note); err != nil {
			return nil, fmt.Errorf("failed to scan highlight: %w", err)
		}
		out[idx] = note
	}
	return out, rows.Err()
}

// ToggleHighlight highlights the verse, or removes the highlight and its
// note if it is already highlighted. It reports whether the verse is
// highlighted afterwards.
func (s *Store) ToggleHighlight(ctx context.Context, book string, chapter, verseIndex int) (bool, error) {
	key, err := checkVerse(book, chapter, verseIndex)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM notes WHERE book = ? AND chapter = ? AND verse_index = ?`, key, chapter, verseIndex)
	if err != nil {
		return false, fmt.Errorf("failed to remove highlight: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("failed to commit: %w", err)
		}
		logging.StoreEvent(ctx, "unhighlight", "notes", 0, "book", key, "chapter", chapter, "verse_index", verseIndex)
		return false, nil
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO notes (book, chapter, verse_index, note) VALUES (?, ?, ?, '')`, key, chapter, verseIndex)
	if err != nil {
		return false, fmt.Errorf("failed to add highlight: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	id, _ := res.LastInsertId()
	logging.StoreEvent(ctx, "highlight", "notes", id, "book", key, "chapter", chapter, "verse_index", verseIndex)
	return true, nil
}

// SaveNote sets the note text of a verse, highlighting it first if needed.
func (s *Store) SaveNote(ctx context.Context, book string, chapter, verseIndex int, note string) (int64, error) {
	key, err := checkVerse(book, chapter, verseIndex)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO notes (book, chapter, verse_index, note) VALUES (?, ?, ?, ?)
		ON CONFLICT(book, chapter, verse_index) DO UPDATE SET note = excluded.note
		RETURNING id`, key, chapter, verseIndex, note).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save note: %w", err)
	}
	logging.StoreEvent(ctx, "save", "notes", id, "book", key, "chapter", chapter, "verse_index", verseIndex)
	return id, nil
}

// UpdateNote replaces the text and group of an existing note.
func (s *Store) UpdateNote(ctx context.Context, n Note) error {
	if n.GroupID != 0 {
		if err := s.requireGroup(ctx, n.GroupID); err != nil {
			return err
		}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET note = ?, note_group_id = ? WHERE id = ?`, n.Note, nullID(n.GroupID), n.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewNotFound("note", fmt.Sprint(n.ID))
	}
	logging.StoreEvent(ctx, "update", "notes", n.ID, "group_id", n.GroupID)
	return nil
}

// DeleteNote removes a note and with it the highlight.
func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewNotFound("note", fmt.Sprint(id))
	}
	logging.StoreEvent(ctx, "delete", "notes", id)
	return nil
}

// SearchNotes returns the notes with non-empty text that match filter, in
// canonical book order.
func (s *Store) SearchNotes(ctx context.Context, filter NoteFilter) ([]Note, error) {
	query := `SELECT id, book, chapter, verse_index, note, note_group_id FROM notes WHERE note != ''`
	var args []any
	if filter.Book != "" {
		query += ` AND book = ?`
		args = append(args, books.Normalize(strings.TrimSpace(filter.Book)))
	}
	if filter.Text != "" {
		query += ` AND note LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter.Text)+"%")
	}
	if filter.GroupID != 0 {
		query += ` AND note_group_id = ?`
		args = append(args, filter.GroupID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var (
			n     Note
			group sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Book, &n.Chapter, &n.VerseIndex, &n.Note, &group); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		n.GroupID = group.Int64
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Book != b.Book {
			return bookRank(a.Book) < bookRank(b.Book)
		}
		if a.Chapter != b.Chapter {
			return a.Chapter < b.Chapter
		}
		return a.VerseIndex < b.VerseIndex
	})
	return out, nil
}

// SaveGroup inserts g when its ID is 0 and renames it otherwise. It returns
// the group's ID.
func (s *Store) SaveGroup(ctx context.Context, g NoteGroup) (int64, error) {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return 0, errors.NewValidation("name", g.Name, "group name is required")
	}
	if g.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO note_groups (name) VALUES (?)`, name)
		if err != nil {
			return 0, fmt.Errorf("failed to insert group: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read group id: %w", err)
		}
		logging.StoreEvent(ctx, "insert", "note_groups", id)
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE note_groups SET name = ? WHERE id = ?`, name, g.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update group: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return 0, errors.NewNotFound("note group", fmt.Sprint(g.ID))
	}
	logging.StoreEvent(ctx, "update", "note_groups", g.ID)
	return g.ID, nil
}

// DeleteGroup removes a group. Its notes are kept and become ungrouped.
func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE notes SET note_group_id = NULL WHERE note_group_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach notes: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM note_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewNotFound("note group", fmt.Sprint(id))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	logging.StoreEvent(ctx, "delete", "note_groups", id)
	return nil
}

// Groups returns every group ordered by ID.
func (s *Store) Groups(ctx context.Context) ([]NoteGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM note_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var out []NoteGroup
	for rows.Next() {
		var g NoteGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) requireGroup(ctx context.Context, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM note_groups WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFound("note group", fmt.Sprint(id))
	}
	if err != nil {
		return fmt.Errorf("failed to look up group: %w", err)
	}
	return nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// bookRank sorts canonical books first, then everything else.
func bookRank(key string) int {
	if i, ok := books.Position(key); ok {
		return i
	}
	return len(books.All())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
