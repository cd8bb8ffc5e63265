// Command talababa is the CLI for the talababa study-aid engine. It reads
// the scripture dataset, resolves footnote cross-references, formats
// markup, and manages the reader's annotations and settings.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/talababa/core/footnote"
	"github.com/FocuswithJustin/talababa/core/scripture"
	"github.com/FocuswithJustin/talababa/internal/annotations"
	"github.com/FocuswithJustin/talababa/internal/logging"
	"github.com/FocuswithJustin/talababa/internal/validation"
)

const version = "0.1.0"

// Globals are the flags shared by every command.
type Globals struct {
	Data         string `name:"data" short:"d" help:"Scripture dataset directory or .tar.xz/.tar.gz archive" default:"assets/bible" env:"TALABABA_DATA"`
	DB           string `name:"db" help:"Annotation database path" default:"talababa.db" env:"TALABABA_DB"`
	SettingsFile string `name:"settings" help:"Settings file path" default:"talababa.toml" env:"TALABABA_SETTINGS"`
	LogLevel     string `name:"log-level" help:"Log level" default:"warn" enum:"debug,info,warn,error"`
	LogFormat    string `name:"log-format" help:"Log format" default:"text" enum:"text,json"`
	JSON         bool   `name:"json" help:"Write machine-readable JSON to stdout"`
}

// CLI defines the command-line interface for talababa.
type CLI struct {
	Globals

	Books    BooksGroup    `cmd:"" help:"Book names and keys"`
	Chapter  ChapterGroup  `cmd:"" help:"Read chapters"`
	Footnote FootnoteGroup `cmd:"" help:"Show and resolve footnotes"`
	Markup   MarkupGroup   `cmd:"" help:"Inline markup tools"`
	Notes    NotesGroup    `cmd:"" help:"Highlights and notes"`
	Groups   GroupsGroup   `cmd:"" help:"Note groups"`
	Settings SettingsGroup `cmd:"" help:"Reader settings"`
	Dataset  DatasetGroup  `cmd:"" help:"Dataset inspection and packaging"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

// App carries the per-invocation state commands run against. The dataset
// and the annotation store are opened on first use.
type App struct {
	*Globals

	ctx   context.Context
	out   io.Writer
	index *scripture.Index
	store *annotations.Store
}

// Index returns the scripture dataset named by --data.
func (a *App) Index() (*scripture.Index, error) {
	if a.index != nil {
		return a.index, nil
	}
	if _, err := validation.CheckDataSource(a.Data); err != nil {
		return nil, fmt.Errorf("invalid --data: %w", err)
	}
	idx, err := scripture.Load(a.Data)
	if err != nil {
		return nil, err
	}
	a.index = idx
	return idx, nil
}

// Resolver returns a footnote resolver over the dataset.
func (a *App) Resolver(maxDepth int) (*footnote.Resolver, error) {
	idx, err := a.Index()
	if err != nil {
		return nil, err
	}
	return footnote.NewResolver(idx, footnote.WithMaxDepth(maxDepth), footnote.WithCache(256)), nil
}

// Store returns the annotation store named by --db.
func (a *App) Store() (*annotations.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if err := validation.CheckDatabase(a.DB); err != nil {
		return nil, fmt.Errorf("invalid --db: %w", err)
	}
	s, err := annotations.Open(a.DB)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

// Close releases whatever the commands opened.
func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logging.Error("close annotation store", "path", a.DB, "error", err)
		}
	}
}

// emit writes v as JSON with --json, or calls text otherwise.
func (a *App) emit(v any, text func(w io.Writer)) error {
	if a.JSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(a.out)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	return app.emit(map[string]string{"version": version}, func(w io.Writer) {
		fmt.Fprintf(w, "talababa version %s\n", version)
	})
}

func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	app := &App{Globals: &cli.Globals, out: stdout}

	parser, err := kong.New(&cli,
		kong.Name("talababa"),
		kong.Description("Footnote cross-references and annotations for the Filipino New Testament reader"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, stderr),
		kong.Bind(app),
	)
	if err != nil {
		fmt.Fprintf(stderr, "talababa: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "talababa: %v\n", err)
		return 2
	}

	level, err := logging.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "talababa: %v\n", err)
		return 2
	}
	format, err := logging.ParseFormat(cli.LogFormat)
	if err != nil {
		fmt.Fprintf(stderr, "talababa: %v\n", err)
		return 2
	}
	logging.InitLoggerTo(stderr, level, format)

	app.ctx = logging.WithRequestID(context.Background(), uuid.NewString())
	defer app.Close()
	logging.DebugContext(app.ctx, "command", "name", kctx.Command())

	if err := kctx.Run(); err != nil {
		logging.ErrorContext(app.ctx, "command failed", "name", kctx.Command(), "error", err)
		fmt.Fprintf(stderr, "talababa: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
