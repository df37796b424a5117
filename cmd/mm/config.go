package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scott-cotton/cli"

	"github.com/mathkernel/mm/archive"
	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/settings"
	"github.com/mathkernel/mm/termcolor"
)

// MainConfig holds the options shared by every subcommand: just the
// library root directory, the way cmd/o's MainConfig holds the
// i/o format flags every o subcommand shares.
type MainConfig struct {
	Root string `cli:"name=C desc='library root directory'"`

	Main *cli.Command
}

func archivePath(root string) string  { return filepath.Join(root, "library.mmar") }
func settingsPath(root string) string { return filepath.Join(root, "mm.settings") }

// loadLibrary reads the root's committed archive, or returns a fresh,
// empty Library if none has been written yet (spec §3: the archive is
// the library's only persistent form).
func loadLibrary(root string) (*library.Library, error) {
	f, err := os.Open(archivePath(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return library.New(), nil
		}
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()
	return archive.Read(f)
}

// saveLibrary commits lib back to the root's archive file, overwriting
// whatever was there (§5: "only the driver mutates the library, only
// after success" — this is always called after a command's library
// mutation already succeeded).
func saveLibrary(root string, lib *library.Library) error {
	f, err := os.OpenFile(archivePath(root), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	defer f.Close()
	return archive.Write(f, lib)
}

// loadSettings reads the root's settings file, or a zero Settings if
// none exists (every key then defaults to its Go zero value).
func loadSettings(root string) (settings.Settings, bool, error) {
	data, err := os.ReadFile(settingsPath(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings.Settings{}, false, nil
		}
		return settings.Settings{}, false, fmt.Errorf("reading settings: %w", err)
	}
	s, err := settings.Parse(string(data))
	return s, true, err
}

func saveSettings(root string, s settings.Settings) error {
	return os.WriteFile(settingsPath(root), []byte(s.String()), 0o644)
}

// paletteFor builds the CLI's color palette for this root: COLOR from
// the settings file if one exists (explicit), else auto-detected from
// whether out is a terminal (spec §10/§11, termcolor.ForSetting).
func paletteFor(root string, out io.Writer) *termcolor.Palette {
	s, present, err := loadSettings(root)
	if err != nil {
		return termcolor.Disabled()
	}
	return termcolor.ForSetting(present, s.Color, out)
}
