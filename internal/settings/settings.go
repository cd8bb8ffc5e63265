// Package settings persists the reader's display and narration settings in
// a TOML file.
package settings

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/internal/fileutil"
)

// Theme modes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Slider bounds.
const (
	MinFontSize = 15
	MaxFontSize = 30
	MinSpeech   = 0.6
	MaxSpeech   = 1.5
)

// Settings are the persisted reader preferences.
type Settings struct {
	FontSize    int     `toml:"font_size" json:"font_size"`
	ThemeMode   string  `toml:"theme_mode" json:"theme_mode"`
	SpeechRate  float64 `toml:"speech_rate" json:"speech_rate"`
	SpeechPitch float64 `toml:"speech_pitch" json:"speech_pitch"`
}

// Defaults returns the settings of a fresh install.
func Defaults() Settings {
	return Settings{
		FontSize:    16,
		ThemeMode:   ThemeAuto,
		SpeechRate:  1.0,
		SpeechPitch: 1.0,
	}
}

// Validate checks every field against its allowed range.
func (s Settings) Validate() error {
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return errors.NewValidation("font_size", s.FontSize, fmt.Sprintf("must be between %d and %d", MinFontSize, MaxFontSize))
	}
	switch s.ThemeMode {
	case ThemeLight, ThemeDark, ThemeAuto:
	default:
		return errors.NewValidation("theme_mode", s.ThemeMode, "must be light, dark or auto")
	}
	if !speechInRange(s.SpeechRate) {
		return errors.NewValidation("speech_rate", s.SpeechRate, fmt.Sprintf("must be between %.1f and %.1f", MinSpeech, MaxSpeech))
	}
	if !speechInRange(s.SpeechPitch) {
		return errors.NewValidation("speech_pitch", s.SpeechPitch, fmt.Sprintf("must be between %.1f and %.1f", MinSpeech, MaxSpeech))
	}
	return nil
}

// speechInRange reports whether f is a number within the speech slider
// bounds. NaN is outside every range.
func speechInRange(f float64) bool {
	return !math.IsNaN(f) && f >= MinSpeech && f <= MaxSpeech
}

// Keys lists the names accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(*Settings, string) error{
	"font_size": func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidation("font_size", v, "must be an integer")
		}
		s.FontSize = n
		return nil
	},
	"theme_mode": func(s *Settings, v string) error {
		s.ThemeMode = strings.ToLower(v)
		return nil
	},
	"speech_rate": func(s *Settings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewValidation("speech_rate", v, "must be a number")
		}
		s.SpeechRate = f
		return nil
	},
	"speech_pitch": func(s *Settings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewValidation("speech_pitch", v, "must be a number")
		}
		s.SpeechPitch = f
		return nil
	},
}

// Set returns a copy of s with key set to the parsed value. The result is
// validated; s is never modified.
func (s Settings) Set(key, value string) (Settings, error) {
	set, ok := setters[key]
	if !ok {
		return s, errors.NewValidation("key", key, "unknown setting, want one of "+strings.Join(Keys(), ", "))
	}
	next := s
	if err := set(&next, strings.TrimSpace(value)); err != nil {
		return s, err
	}
	if err := next.Validate(); err != nil {
		return s, err
	}
	return next, nil
}

// Load reads settings from path. A missing file yields Defaults. Fields
// absent from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, errors.NewIO("read", path, err)
	}
	if _, err := toml.Decode(string(data), &s); err != nil {
		return Defaults(), errors.NewParse("toml", path, err)
	}
	if err := s.Validate(); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// Save validates s and writes it to path atomically.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// Reset writes Defaults to path and returns them.
func Reset(path string) (Settings, error) {
	s := Defaults()
	return s, Save(path, s)
}
