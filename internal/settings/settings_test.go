package settings

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/talababa/core/errors"
)

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "min font", mutate: func(s *Settings) { s.FontSize = 15 }},
		{name: "max font", mutate: func(s *Settings) { s.FontSize = 30 }},
		{name: "font too small", mutate: func(s *Settings) { s.FontSize = 14 }, wantErr: true},
		{name: "font too large", mutate: func(s *Settings) { s.FontSize = 31 }, wantErr: true},
		{name: "dark theme", mutate: func(s *Settings) { s.ThemeMode = ThemeDark }},
		{name: "unknown theme", mutate: func(s *Settings) { s.ThemeMode = "sepia" }, wantErr: true},
		{name: "slow speech", mutate: func(s *Settings) { s.SpeechRate = 0.6 }},
		{name: "speech too slow", mutate: func(s *Settings) { s.SpeechRate = 0.5 }, wantErr: true},
		{name: "pitch too high", mutate: func(s *Settings) { s.SpeechPitch = 1.6 }, wantErr: true},
		{name: "rate not a number", mutate: func(s *Settings) { s.SpeechRate = math.NaN() }, wantErr: true},
		{name: "pitch not a number", mutate: func(s *Settings) { s.SpeechPitch = math.NaN() }, wantErr: true},
		{name: "rate infinite", mutate: func(s *Settings) { s.SpeechRate = math.Inf(1) }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestSet(t *testing.T) {
	base := Defaults()

	tests := []struct {
		key, value string
		check      func(Settings) bool
		wantErr    bool
	}{
		{key: "font_size", value: "20", check: func(s Settings) bool { return s.FontSize == 20 }},
		{key: "theme_mode", value: "DARK", check: func(s Settings) bool { return s.ThemeMode == ThemeDark }},
		{key: "speech_rate", value: "1.25", check: func(s Settings) bool { return s.SpeechRate == 1.25 }},
		{key: "speech_pitch", value: " 0.8 ", check: func(s Settings) bool { return s.SpeechPitch == 0.8 }},
		{key: "font_size", value: "malaki", wantErr: true},
		{key: "font_size", value: "99", wantErr: true},
		{key: "speech_rate", value: "mabilis", wantErr: true},
		{key: "speech_rate", value: "NaN", wantErr: true},
		{key: "speech_pitch", value: "nan", wantErr: true},
		{key: "speech_rate", value: "+Inf", wantErr: true},
		{key: "volume", value: "1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := base.Set(tt.key, tt.value)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("Set() error = %v, want ErrInvalidInput", err)
				}
				if got != base {
					t.Errorf("Set() on error = %+v, want unchanged", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if !tt.check(got) {
				t.Errorf("Set(%q, %q) = %+v", tt.key, tt.value, got)
			}
		})
	}
	if base != Defaults() {
		t.Error("Set modified its receiver")
	}
}

func TestLoadMissingFile(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != Defaults() {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestSaveLoadResetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "settings.toml")
	want := Settings{FontSize: 22, ThemeMode: ThemeLight, SpeechRate: 0.75, SpeechPitch: 1.5}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	reset, err := Reset(path)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got, _ := Load(path); got != reset || reset != Defaults() {
		t.Errorf("after Reset Load() = %+v, want defaults", got)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("theme_mode = \"dark\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Defaults()
	want.ThemeMode = ThemeDark
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{name: "syntax", content: "font_size = = 3", target: errors.ErrInvalidInput},
		{name: "out of range", content: "font_size = 40", target: errors.ErrInvalidInput},
		{name: "nan rate", content: "speech_rate = nan", target: errors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if !errors.Is(err, tt.target) {
				t.Errorf("Load() error = %v, want %v", err, tt.target)
			}
			if got != Defaults() {
				t.Errorf("Load() on error = %+v, want defaults", got)
			}
		})
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	bad := Defaults()
	bad.ThemeMode = "neon"
	if err := Save(path, bad); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Save() error = %v, want ErrInvalidInput", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Save() wrote an invalid file")
	}
}
