package main

import (
	"fmt"
	"io"

	"github.com/FocuswithJustin/talababa/core/errors"
	"github.com/FocuswithJustin/talababa/internal/logging"
	"github.com/FocuswithJustin/talababa/internal/settings"
)

// SettingsGroup contains reader settings operations.
type SettingsGroup struct {
	Show  SettingsShowCmd  `cmd:"" help:"Print the current settings"`
	Set   SettingsSetCmd   `cmd:"" help:"Change one setting"`
	Reset SettingsResetCmd `cmd:"" help:"Restore the defaults"`
}

func writeSettings(w io.Writer, s settings.Settings) {
	fmt.Fprintf(w, "font_size    = %d\n", s.FontSize)
	fmt.Fprintf(w, "theme_mode   = %s\n", s.ThemeMode)
	fmt.Fprintf(w, "speech_rate  = %.2f\n", s.SpeechRate)
	fmt.Fprintf(w, "speech_pitch = %.2f\n", s.SpeechPitch)
}

// SettingsShowCmd prints the settings.
type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(app *App) error {
	s, err := settings.Load(app.SettingsFile)
	if errors.Is(err, errors.ErrInvalidInput) {
		// Load already fell back to the defaults.
		logging.WarnContext(app.ctx, "settings file unusable, showing defaults", "path", app.SettingsFile, "error", err)
	} else if err != nil {
		return err
	}
	return app.emit(s, func(w io.Writer) { writeSettings(w, s) })
}

// SettingsSetCmd changes one setting.
type SettingsSetCmd struct {
	Key   string `arg:"" help:"font_size, theme_mode, speech_rate or speech_pitch"`
	Value string `arg:"" help:"New value"`
}

func (c *SettingsSetCmd) Run(app *App) error {
	s, err := settings.Load(app.SettingsFile)
	if err != nil {
		return err
	}
	s, err = s.Set(c.Key, c.Value)
	if err != nil {
		return err
	}
	if err := settings.Save(app.SettingsFile, s); err != nil {
		return err
	}
	return app.emit(s, func(w io.Writer) { writeSettings(w, s) })
}

// SettingsResetCmd restores the defaults.
type SettingsResetCmd struct{}

func (c *SettingsResetCmd) Run(app *App) error {
	s, err := settings.Reset(app.SettingsFile)
	if err != nil {
		return err
	}
	return app.emit(s, func(w io.Writer) { writeSettings(w, s) })
}
