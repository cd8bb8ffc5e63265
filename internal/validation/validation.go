// Package validation checks the paths and files handed to the talababa CLI
// before any package opens them.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxPathLength is the longest path accepted.
const MaxPathLength = 4096

// Validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrTypeMismatch     = errors.New("file type mismatch")
)

// FileType is a kind of input the CLI accepts.
type FileType string

const (
	FileTypeDir     FileType = "dir"
	FileTypeTarXZ   FileType = "tar.xz"
	FileTypeTarGZ   FileType = "tar.gz"
	FileTypeSQLite  FileType = "sqlite"
	FileTypeJSON    FileType = "json"
	FileTypeUnknown FileType = "unknown"
)

var sqliteMagic = []byte("SQLite format 3\x00")

var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeTarXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeTarGZ, []byte{0x1f, 0x8b}},
	{FileTypeSQLite, sqliteMagic},
}

// ValidatePath rejects empty, overlong, and control-character paths.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateFilename checks a single path element, such as a book document
// name inside a dataset directory.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return ErrInvalidFilename
	case name == "." || name == "..":
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	case strings.ContainsAny(name, "/\\"):
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}
	return nil
}

// TypeFromExtension returns the type a file name claims to be.
func TypeFromExtension(name string) FileType {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.xz"):
		return FileTypeTarXZ
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FileTypeTarGZ
	}
	switch filepath.Ext(lower) {
	case ".db", ".sqlite", ".sqlite3":
		return FileTypeSQLite
	case ".json":
		return FileTypeJSON
	}
	return FileTypeUnknown
}

// DetectFileType reads the header of r and checks it against the type the
// name claims. JSON is accepted when the content starts like JSON.
func DetectFileType(r io.Reader, name string) (FileType, error) {
	buf := make([]byte, 64)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	expected := TypeFromExtension(name)
	detected := FileTypeUnknown
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			detected = sig.fileType
			break
		}
	}
	if detected == FileTypeUnknown && looksLikeJSON(buf) {
		detected = FileTypeJSON
	}

	switch {
	case detected == expected:
		return detected, nil
	case expected == FileTypeUnknown:
		return detected, nil
	case detected == FileTypeUnknown:
		return FileTypeUnknown, fmt.Errorf("%w: %s does not look like %s", ErrTypeMismatch, name, expected)
	default:
		return FileTypeUnknown, fmt.Errorf("%w: extension suggests %s but content is %s", ErrTypeMismatch, expected, detected)
	}
}

// CheckDataSource validates a --data argument: a directory of book
// documents or a .tar.xz/.tar.gz archive of them.
func CheckDataSource(path string) (FileType, error) {
	if err := ValidatePath(path); err != nil {
		return FileTypeUnknown, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileTypeUnknown, err
	}
	if info.IsDir() {
		return FileTypeDir, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return FileTypeUnknown, err
	}
	defer f.Close()

	ft, err := DetectFileType(f, path)
	if err != nil {
		return FileTypeUnknown, err
	}
	if ft != FileTypeTarXZ && ft != FileTypeTarGZ {
		return FileTypeUnknown, fmt.Errorf("%w: %s is neither a directory nor a dataset archive", ErrTypeMismatch, path)
	}
	return ft, nil
}

// CheckDatabase validates a --db argument. A missing or empty file is fine;
// an existing file must be a SQLite database.
func CheckDatabase(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrTypeMismatch, path)
	}
	if info.Size() == 0 {
		return nil
	}
	header := make([]byte, 16)
	if _, err := io.ReadFull(f, header); err != nil || !bytes.Equal(header, sqliteMagic) {
		return fmt.Errorf("%w: %s is not a SQLite database", ErrTypeMismatch, path)
	}
	return nil
}

func looksLikeJSON(buf []byte) bool {
	trimmed := bytes.TrimLeft(buf, " \t\r\n\uFEFF")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
