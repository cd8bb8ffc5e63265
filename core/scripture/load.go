package scripture

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/internal/archive"
	"github.com/FocuswithJustin/talababa/internal/logging"
)

const chapterKeyPrefix = "chapter-"

// LoadDir loads one "<book-key>.json" document per book from dir.
func LoadDir(dir string) (*Index, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewIO("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidation("data", dir, "not a directory")
	}
	return loadFS(dir, os.DirFS(dir))
}

// LoadFS loads book documents from the root of fsys.
func LoadFS(fsys fs.FS) (*Index, error) {
	return loadFS("fs", fsys)
}

// LoadArchive loads book documents from a .tar.xz or .tar.gz archive.
// Directories inside the archive are ignored.
func LoadArchive(archivePath string) (*Index, error) {
	docs, err := archive.ReadMatching(archivePath, isBookDocument)
	if err != nil {
		return nil, errors.NewIO("read archive", archivePath, err)
	}
	return build(archivePath, docs)
}

// Load picks LoadArchive or LoadDir by looking at p.
func Load(p string) (*Index, error) {
	if archive.IsArchive(p) {
		return LoadArchive(p)
	}
	return LoadDir(p)
}

func isBookDocument(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".")
}

func loadFS(source string, fsys fs.FS) (*Index, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, errors.NewIO("glob", source, err)
	}
	docs := make(map[string][]byte, len(names))
	for _, name := range names {
		if !isBookDocument(name) {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.NewIO("read", path.Join(source, name), err)
		}
		docs[name] = data
	}
	return build(source, docs)
}

// build decodes docs (file name -> JSON) and hashes them in name order.
func build(source string, docs map[string][]byte) (*Index, error) {
	if len(docs) == 0 {
		return nil, errors.NewValidation("data", source, "no book documents found")
	}

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	hasher := blake3.New()
	chapters := make(map[string]map[int]*Chapter, len(docs))
	total := 0
	for _, name := range names {
		data := docs[name]
		hasher.Write([]byte(name))
		hasher.Write([]byte{0})
		hasher.Write(data)

		book := strings.TrimSuffix(name, ".json")
		byNumber, err := decodeBook(name, data)
		if err != nil {
			return nil, err
		}
		chapters[book] = byNumber
		total += len(byNumber)
		logging.Debug("book decoded", "book", book, "chapters", len(byNumber), "bytes", len(data))
	}

	idx, err := NewIndex(chapters)
	if err != nil {
		return nil, err
	}
	idx.digest = hex.EncodeToString(hasher.Sum(nil))

	logging.DatasetLoaded(source, len(chapters), total, idx.digest)
	return idx, nil
}

// decodeBook decodes {"chapter-N": {...}} into chapters keyed by N.
func decodeBook(name string, data []byte) (map[int]*Chapter, error) {
	var raw map[string]*Chapter
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewParse("json", name, err)
	}
	out := make(map[int]*Chapter, len(raw))
	for key, ch := range raw {
		numStr, ok := strings.CutPrefix(key, chapterKeyPrefix)
		if !ok {
			return nil, errors.NewParse("json", name, fmt.Errorf("unexpected key %q", key))
		}
		n, err := strconv.Atoi(numStr)
		if err != nil || n < 1 {
			return nil, errors.NewParse("json", name, fmt.Errorf("bad chapter key %q", key))
		}
		if ch == nil {
			return nil, errors.NewParse("json", name, fmt.Errorf("%s is null", key))
		}
		out[n] = ch
	}
	return out, nil
}
