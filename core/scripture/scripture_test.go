package scripture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/internal/archive"
)

const testdataDir = "testdata/books"

func TestParseFootnoteID(t *testing.T) {
	tests := []struct {
		input   string
		want    FootnoteID
		wantErr bool
	}{
		{input: "3-2", want: FootnoteID{Verse: 3, Sequence: 2}},
		{input: "12-10", want: FootnoteID{Verse: 12, Sequence: 10}},
		{input: "08-1", want: FootnoteID{Verse: 8, Sequence: 1}},
		{input: " 5-1 ", want: FootnoteID{Verse: 5, Sequence: 1}},
		{input: "", wantErr: true},
		{input: "3", wantErr: true},
		{input: "3-", wantErr: true},
		{input: "a-1", wantErr: true},
		{input: "3-2-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFootnoteID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseFootnoteID(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFootnoteID(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFootnoteID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFootnoteIDString(t *testing.T) {
	if got := (FootnoteID{Verse: 4, Sequence: 7}).String(); got != "4-7" {
		t.Errorf("String() = %q, want %q", got, "4-7")
	}
}

func TestNewIndexValidation(t *testing.T) {
	ch := func() *Chapter { return &Chapter{} }
	tests := []struct {
		name     string
		chapters map[string]map[int]*Chapter
	}{
		{name: "unnormalized key", chapters: map[string]map[int]*Chapter{"1 Corinto": {1: ch()}}},
		{name: "empty key", chapters: map[string]map[int]*Chapter{"": {1: ch()}}},
		{name: "gap", chapters: map[string]map[int]*Chapter{"juan": {1: ch(), 3: ch()}}},
		{name: "starts at two", chapters: map[string]map[int]*Chapter{"juan": {2: ch()}}},
		{name: "nil chapter", chapters: map[string]map[int]*Chapter{"juan": {1: nil}}},
		{name: "misnumbered", chapters: map[string]map[int]*Chapter{"juan": {1: {Number: 2}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIndex(tt.chapters)
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("NewIndex() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewIndexOrder(t *testing.T) {
	idx, err := NewIndex(map[string]map[int]*Chapter{
		"zeta":      {1: {}},
		"juan":      {1: {}, 2: {}},
		"mateo":     {1: {}},
		"alpha":     {1: {}},
		"1-corinto": {1: {}},
	})
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	want := []string{"mateo", "juan", "1-corinto", "alpha", "zeta"}
	got := idx.Books()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Books() = %v, want %v", got, want)
	}
	if n := idx.ChapterCount("juan"); n != 2 {
		t.Errorf("ChapterCount(juan) = %d, want 2", n)
	}
	if ch, _ := idx.Chapter("juan", 2); ch.Number != 2 {
		t.Errorf("Chapter(juan, 2).Number = %d, want 2", ch.Number)
	}
	if idx.Digest() != "" {
		t.Errorf("Digest() = %q, want empty for in-memory index", idx.Digest())
	}
}

func TestNewIndexLeavesInputUntouched(t *testing.T) {
	first := &Chapter{Verses: []Verse{{ID: "1", Text: "Sa pasimula."}}}
	second := &Chapter{}
	idx, err := NewIndex(map[string]map[int]*Chapter{"juan": {1: first, 2: second}})
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	if first.Number != 0 || second.Number != 0 {
		t.Errorf("caller chapters numbered %d, %d; want 0, 0", first.Number, second.Number)
	}

	second.Number = 9
	ch, ok := idx.Chapter("juan", 2)
	if !ok || ch.Number != 2 {
		t.Errorf("Chapter(juan, 2) = %+v, %v; want Number 2", ch, ok)
	}
	if ch == second {
		t.Error("Chapter(juan, 2) returned the caller's record")
	}
}

func loadTestdata(t *testing.T) *Index {
	t.Helper()
	idx, err := LoadDir(testdataDir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	return idx
}

func TestLoadDir(t *testing.T) {
	idx := loadTestdata(t)

	if got := strings.Join(idx.Books(), ","); got != "juan,roma" {
		t.Errorf("Books() = %q, want %q", got, "juan,roma")
	}
	if n := idx.ChapterCount("roma"); n != 3 {
		t.Errorf("ChapterCount(roma) = %d, want 3", n)
	}
	if len(idx.Digest()) != 64 {
		t.Errorf("Digest() = %q, want 64 hex chars", idx.Digest())
	}

	v, ok := idx.Verse("juan", 1, 1)
	if !ok {
		t.Fatal("Verse(juan, 1, 1) missing")
	}
	if len(v.Outlines) != 1 || v.Outlines[0] != "Ang Salita ay Naging Tao" {
		t.Errorf("Outlines = %v", v.Outlines)
	}
	if v, _ := idx.Verse("juan", 1, 2); v.Outlines != nil {
		t.Errorf("Verse(juan, 1, 2).Outlines = %v, want nil", v.Outlines)
	}
	if _, ok := idx.Verse("juan", 1, 6); ok {
		t.Error("Verse(juan, 1, 6) should be missing")
	}

	text, ok := idx.FootnoteText("roma", 3, "2-1")
	if !ok || text != "Tingnan ang tala 5-1 sa Juan 1." {
		t.Errorf("FootnoteText(roma, 3, 2-1) = %q, %v", text, ok)
	}
}

func TestLoadFSMatchesLoadDir(t *testing.T) {
	fsys := fstest.MapFS{}
	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(testdataDir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		fsys[e.Name()] = &fstest.MapFile{Data: data}
	}

	fromFS, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if fromFS.Digest() != loadTestdata(t).Digest() {
		t.Error("LoadFS and LoadDir digests differ for the same documents")
	}
}

func TestLoadArchive(t *testing.T) {
	for _, ext := range []string{".tar.xz", ".tar.gz"} {
		t.Run(ext, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "books"+ext)
			if err := archive.Create(testdataDir, dst); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			idx, err := Load(dst)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if idx.Digest() != loadTestdata(t).Digest() {
				t.Error("archive digest differs from directory digest")
			}
			if _, ok := idx.LookupFootnote("juan", 1, "5-1"); !ok {
				t.Error("LookupFootnote(juan, 1, 5-1) missing after archive load")
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDir(dir); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("LoadDir(empty) error = %v, want ErrInvalidInput", err)
	}
	if _, err := LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("LoadDir(missing) should fail")
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "bad json", body: `{"chapter-1": `},
		{name: "bad key", body: `{"kabanata-1": {"verses": []}}`},
		{name: "zero chapter", body: `{"chapter-0": {"verses": []}}`},
		{name: "null chapter", body: `{"chapter-1": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(fstest.MapFS{"juan.json": {Data: []byte(tt.body)}})
			var pe *errors.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("LoadFS() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestLookupFootnote(t *testing.T) {
	idx := loadTestdata(t)

	got, ok := idx.LookupFootnote("juan", 1, "1-1")
	if !ok {
		t.Fatal("LookupFootnote(juan, 1, 1-1) missed")
	}
	if got.Verse != 1 || got.Word != "Salita," {
		t.Errorf("detail = %+v", got)
	}
	if !strings.HasSuffix(got.Body, "Tingnan ang tala 5-1.") {
		t.Errorf("Body = %q", got.Body)
	}

	misses := []struct {
		name    string
		book    string
		chapter int
		id      string
	}{
		{name: "unknown book", book: "mateo", chapter: 1, id: "1-1"},
		{name: "unknown chapter", book: "juan", chapter: 9, id: "1-1"},
		{name: "verse out of range", book: "juan", chapter: 1, id: "9-1"},
		{name: "verse without that footnote", book: "juan", chapter: 1, id: "2-1"},
		{name: "no chapter reference", book: "roma", chapter: 1, id: "1-1"},
		{name: "malformed id", book: "juan", chapter: 1, id: "abc"},
		{name: "unnormalized book", book: "Juan", chapter: 1, id: "1-1"},
	}
	for _, tt := range misses {
		t.Run(tt.name, func(t *testing.T) {
			if d, ok := idx.LookupFootnote(tt.book, tt.chapter, tt.id); ok || d != nil {
				t.Errorf("LookupFootnote(%q, %d, %q) = %+v, %v, want miss", tt.book, tt.chapter, tt.id, d, ok)
			}
		})
	}
}

func TestFootnoteTitle(t *testing.T) {
	d := &FootnoteDetail{
		Book:      "1-corinto",
		Chapter:   2,
		Verse:     4,
		ID:        "4-1",
		Word:      "Salita;",
		VerseText: "Ang Salita at ang Salitang buhay",
	}

	tests := []struct {
		point string
		want  string
	}{
		{
			point: "",
			want:  "[b]Talababa sa 1 Corinto 2:4:[/b]\n[i]Ang [bb]Salita[/bb] at ang Salitang buhay[/i]",
		},
		{
			point: " punto 2,",
			want:  "[b]Talababa sa 1 Corinto 2:4, punto 2:[/b]\n[i]Ang [bb]Salita[/bb] at ang Salitang buhay[/i]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.point, func(t *testing.T) {
			if got := d.Title(tt.point); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.point, got, tt.want)
			}
		})
	}
}
