package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name    string
		err     *NotFoundError
		wantMsg string
	}{
		{
			name:    "with ID",
			err:     NewNotFound("note", "42"),
			wantMsg: "note not found: 42",
		},
		{
			name:    "without ID",
			err:     &NotFoundError{Resource: "chapter"},
			wantMsg: "chapter not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrNotFound) {
				t.Errorf("errors.Is(%v, ErrNotFound) = false", tt.err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		wantMsg string
	}{
		{
			name:    "field and value",
			err:     NewValidation("chapter", 0, "must be at least 1"),
			wantMsg: "invalid chapter 0: must be at least 1",
		},
		{
			name:    "field only",
			err:     &ValidationError{Field: "book", Message: "must not be empty"},
			wantMsg: "invalid book: must not be empty",
		},
		{
			name:    "message only",
			err:     &ValidationError{Message: "nothing to do"},
			wantMsg: "invalid input: nothing to do",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Errorf("errors.Is(%v, ErrInvalidInput) = false", tt.err)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("JSON", "juan.json", fmt.Errorf("unexpected end of input"))
	want := "failed to parse JSON in juan.json: unexpected end of input"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ParseError with cause should still be ErrInvalidInput")
	}
	cause := fmt.Errorf("bad byte")
	if !errors.Is(NewParse("TOML", "", cause), cause) {
		t.Error("ParseError should unwrap to its cause")
	}

	bare := &ParseError{Format: "footnote id", Message: "missing dash"}
	if got := bare.Error(); got != "failed to parse footnote id: missing dash" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(bare, ErrInvalidInput) {
		t.Error("ParseError without cause should unwrap to ErrInvalidInput")
	}
}

func TestIOError(t *testing.T) {
	err := NewIO("open", "/data/bible", fs.ErrNotExist)
	if got := err.Error(); got != "failed to open /data/bible: file does not exist" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("IOError should unwrap to its cause")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"not found", NewNotFound("note", "1"), ErrNotFound},
		{"wrapped validation", Wrap(NewValidation("chapter", -1, "negative"), "resolve"), ErrInvalidInput},
		{"plain", fmt.Errorf("disk on fire"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	base := NewNotFound("group", "7")
	wrapped := Wrapf(base, "delete group %d", 7)
	if got := wrapped.Error(); got != "delete group 7: group not found: 7" {
		t.Errorf("Wrapf() = %q", got)
	}

	var nf *NotFoundError
	if !As(wrapped, &nf) || nf.ID != "7" {
		t.Errorf("As() did not recover NotFoundError from %v", wrapped)
	}
	if !Is(wrapped, ErrNotFound) {
		t.Error("Is() should see through Wrapf")
	}
}
