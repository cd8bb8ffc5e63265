// Package footnote expands the cross-references embedded in footnote text.
//
// A footnote body may cite another footnote ("Tingnan ang tala 5-1 sa Juan
// 1."). The Resolver replaces each resolvable citation with the cited
// footnote's title and its own expanded body, re-scanning the composed text
// from the top after every substitution.
package footnote

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/talababa/core/books"
	"github.com/FocuswithJustin/talababa/core/cache"
	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/core/scripture"
	"github.com/FocuswithJustin/talababa/internal/logging"
)

// DefaultMaxDepth bounds recursion independently of the cycle guard.
const DefaultMaxDepth = 50

// Context is where a citation without an explicit location points.
type Context struct {
	Book    string
	Chapter int
}

// Lookup finds a footnote by normalized book key, chapter and id.
// *scripture.Index satisfies it.
type Lookup interface {
	LookupFootnote(book string, chapter int, id string) (*scripture.FootnoteDetail, bool)
}

// citation matches one cross-reference phrase. Groups:
//
//	1 footnote id ("5-1")
//	2 qualifier (" punto 2,")
//	3, 4 book name or chapter word, chapter ("Juan", "1", "Mga Gawa", "4" or "kap.", "3")
//	5, 6 chapter word, chapter
var citation = regexp.MustCompile(
	`\(?(?:Tingnan|Tignan|tingnan)\s(?:ang|sa)\stala\s(\d+-\d+)\s?,?` +
		`(\s(?:punto|talata|tal\.)\s\d+,?)?` +
		`(?:\s?sa\s(\d*\s?[a-zA-Z.]+?(?:\s[a-zA-Z.]+?)?)\s(\d+)|\s?sa\s(kap\.|kapitulo)\s(\d+))?` +
		`\.?\)?\.?`)

// Resolver expands footnote cross-references against a Lookup. It holds no
// per-call state and is safe for concurrent use.
type Resolver struct {
	lookup   Lookup
	maxDepth int
	memo     cache.Cache[memoKey, string]
}

type memoKey struct {
	text    string
	book    string
	chapter int
	id      string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth sets the recursion cap. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithCache memoizes ResolveFootnote results in an LRU of the given size.
func WithCache(size int) Option {
	return func(r *Resolver) {
		if size > 0 {
			r.memo = cache.NewLRUCache[memoKey, string](cache.Config{MaxSize: size})
		}
	}
}

// NewResolver returns a Resolver over lookup.
func NewResolver(lookup Lookup, opts ...Option) *Resolver {
	r := &Resolver{lookup: lookup, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve expands the citations in text, starting from ctx. Text without a
// citation comes back unchanged. Citations that cannot be looked up stay in
// place verbatim. The only error is an invalid ctx.
func (r *Resolver) Resolve(text string, ctx Context) (string, error) {
	ctx, err := checkContext(ctx)
	if err != nil {
		return "", err
	}
	p := &pass{Resolver: r, visited: make(map[triple]bool)}
	return p.resolve(text, ctx, 0), nil
}

// ResolveFootnote expands the body of footnote id shown in book chapter.
// The footnote itself counts as already expanded, so a body citing its own
// footnote has the citation stripped.
func (r *Resolver) ResolveFootnote(text, book string, chapter int, id string) (string, error) {
	ctx, err := checkContext(Context{Book: book, Chapter: chapter})
	if err != nil {
		return "", err
	}
	compute := func() (string, error) {
		p := &pass{Resolver: r, visited: make(map[triple]bool)}
		if id != "" {
			p.visited[triple{ctx.Book, ctx.Chapter, id}] = true
		}
		return p.resolve(text, ctx, 0), nil
	}
	if r.memo == nil {
		return compute()
	}
	return r.memo.GetOrCompute(memoKey{text: text, book: ctx.Book, chapter: ctx.Chapter, id: id}, compute)
}

// CacheStats reports memo statistics. ok is false without WithCache.
func (r *Resolver) CacheStats() (stats cache.Stats, ok bool) {
	if r.memo == nil {
		return cache.Stats{}, false
	}
	return r.memo.Stats(), true
}

func checkContext(ctx Context) (Context, error) {
	if strings.TrimSpace(ctx.Book) == "" {
		return ctx, errors.NewValidation("book", ctx.Book, "book is required")
	}
	if ctx.Chapter <= 0 {
		return ctx, errors.NewValidation("chapter", ctx.Chapter, "chapter must be at least 1")
	}
	ctx.Book = books.Normalize(ctx.Book)
	return ctx, nil
}

type triple struct {
	book    string
	chapter int
	id      string
}

// pass is one top-level resolution. visited is shared by every branch, so
// no footnote is expanded twice anywhere in the result.
type pass struct {
	*Resolver
	visited map[triple]bool
}

func (p *pass) resolve(text string, ctx Context, depth int) string {
	if depth >= p.maxDepth {
		logging.FootnoteEvent("depth_limit", ctx.Book, ctx.Chapter, "", "depth", depth)
		return text
	}

	m := citation.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}
	group := func(n int) (string, bool) {
		if m[2*n] < 0 {
			return "", false
		}
		return text[m[2*n]:m[2*n+1]], true
	}

	id, _ := group(1)
	point, _ := group(2)
	target, ok := targetOf(ctx, group)
	if !ok {
		logging.FootnoteEvent("miss", ctx.Book, ctx.Chapter, id, "reason", "chapter")
		return text
	}

	key := triple{target.Book, target.Chapter, id}
	if p.visited[key] {
		logging.FootnoteEvent("cycle", target.Book, target.Chapter, id)
		stripped := strings.TrimSpace(text[:m[0]] + text[m[1]:])
		return p.resolve(stripped, ctx, depth+1)
	}

	detail, ok := p.lookup.LookupFootnote(target.Book, target.Chapter, id)
	if !ok {
		logging.FootnoteEvent("miss", target.Book, target.Chapter, id)
		return text
	}
	logging.FootnoteEvent("expanded", target.Book, target.Chapter, id)

	p.visited[key] = true
	body := p.resolve(detail.Body, target, depth+1)

	var sb strings.Builder
	sb.WriteString(text[:m[0]])
	sb.WriteString("\n\n")
	sb.WriteString(detail.Title(point))
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(text[m[1]:])

	return p.resolve(strings.TrimSpace(sb.String()), target, depth+1)
}

// targetOf applies the location clause of a match to ctx. ok is false when
// the chapter number does not fit in an int.
func targetOf(ctx Context, group func(int) (string, bool)) (Context, bool) {
	if _, ok := group(5); ok {
		return withChapter(Context{Book: ctx.Book}, group, 6)
	}
	name, ok := group(3)
	if !ok {
		return ctx, true
	}
	if strings.HasPrefix(name, "kap") {
		return withChapter(Context{Book: ctx.Book}, group, 4)
	}
	return withChapter(Context{Book: books.Normalize(name)}, group, 4)
}

func withChapter(target Context, group func(int) (string, bool), n int) (Context, bool) {
	s, _ := group(n)
	chapter, err := strconv.Atoi(s)
	if err != nil {
		return target, false
	}
	target.Chapter = chapter
	return target, true
}
