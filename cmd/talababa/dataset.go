package main

import (
	"fmt"
	"io"
	"os"

	"github.com/FocuswithJustin/talababa/core/books"
	"github.com/FocuswithJustin/talababa/core/scripture"
	"github.com/FocuswithJustin/talababa/core/sqlite"
	"github.com/FocuswithJustin/talababa/internal/archive"
	"github.com/FocuswithJustin/talababa/internal/validation"
)

// DatasetGroup contains dataset operations.
type DatasetGroup struct {
	Info DatasetInfoCmd `cmd:"" help:"Summarize the loaded dataset"`
	Pack DatasetPackCmd `cmd:"" help:"Pack a dataset directory into a .tar.xz or .tar.gz archive"`
}

type bookInfo struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
}

type datasetInfo struct {
	Source string      `json:"source"`
	Digest string      `json:"digest"`
	Books  []bookInfo  `json:"books"`
	SQLite sqlite.Info `json:"sqlite"`
}

// DatasetInfoCmd summarizes the dataset named by --data.
type DatasetInfoCmd struct{}

func (c *DatasetInfoCmd) Run(app *App) error {
	idx, err := app.Index()
	if err != nil {
		return err
	}
	info := datasetInfo{Source: app.Data, Digest: idx.Digest(), SQLite: sqlite.GetInfo()}
	for _, key := range idx.Books() {
		info.Books = append(info.Books, bookInfo{Key: key, Name: books.DisplayName(key), Chapters: idx.ChapterCount(key)})
	}
	return app.emit(info, func(w io.Writer) {
		fmt.Fprintf(w, "Source: %s\n", info.Source)
		fmt.Fprintf(w, "BLAKE3: %s\n", info.Digest)
		fmt.Fprintf(w, "SQLite: %s (%s)\n", info.SQLite.Package, info.SQLite.DriverType)
		for _, b := range info.Books {
			fmt.Fprintf(w, "  %-14s %-14s %3d chapters\n", b.Key, b.Name, b.Chapters)
		}
	})
}

// DatasetPackCmd validates a dataset directory and packs it.
type DatasetPackCmd struct {
	Src string `arg:"" help:"Dataset directory" type:"existingdir"`
	Dst string `arg:"" help:"Output archive (.tar.xz or .tar.gz)"`
}

func (c *DatasetPackCmd) Run(app *App) error {
	if err := validation.ValidatePath(c.Dst); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	switch validation.TypeFromExtension(c.Dst) {
	case validation.FileTypeTarXZ, validation.FileTypeTarGZ:
	default:
		return fmt.Errorf("output must end in .tar.xz or .tar.gz: %s", c.Dst)
	}
	entries, err := os.ReadDir(c.Src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := validation.ValidateFilename(e.Name()); err != nil {
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
	}

	src, err := scripture.LoadDir(c.Src)
	if err != nil {
		return err
	}
	if err := archive.Create(c.Src, c.Dst); err != nil {
		return err
	}
	packed, err := scripture.LoadArchive(c.Dst)
	if err != nil {
		return err
	}
	if packed.Digest() != src.Digest() {
		return fmt.Errorf("archive digest %s does not match source %s", packed.Digest(), src.Digest())
	}

	return app.emit(map[string]string{"archive": c.Dst, "digest": packed.Digest()}, func(w io.Writer) {
		fmt.Fprintf(w, "Created: %s\n  BLAKE3: %s\n", c.Dst, packed.Digest())
	})
}
