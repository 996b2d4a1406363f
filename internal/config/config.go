// Package config loads the configuration and credential documents and
// resolves them into the parameters of a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"farescan/internal/daterange"
	"farescan/internal/grid"
	"farescan/internal/poller"
	"farescan/internal/sheets"
	"farescan/internal/skyscanner"
	"farescan/lib/configutil"
)

const (
	ConfigFile      = "config.json5"
	CredentialsFile = "credentials.json5"
)

type DateRange struct {
	// YYYY-MM-DD
	Start string `json:"start"`
	Count int    `json:"count"`
}

type Spreadsheet struct {
	sheets.Config
	Origin poller.Origin `json:"origin"`
}

type Api struct {
	// defaults to skyscanner.DefaultBaseUrl
	BaseUrl string `json:"base_url"`
	// when set every http exchange is written to this directory
	DumpDir string `json:"dump_dir"`
}

type Config struct {
	Trip         skyscanner.TripParams `json:"trip"`
	Departure    DateRange             `json:"departure"`
	Arrival      DateRange             `json:"arrival"`
	Spreadsheet  Spreadsheet           `json:"spreadsheet"`
	SessionsFile string                `json:"sessions_file"`
	Api          Api                   `json:"api"`
}

type Credentials struct {
	RapidApiKey string `json:"rapidapi_key"`
	// path to the google service account json key
	DriveCreds string `json:"drive_creds"`
}

func (c Credentials) Validate() error {
	if c.RapidApiKey == "" {
		return fmt.Errorf("rapidapi_key is required")
	}
	return nil
}

// Run is the resolved, immutable set of parameters shared by both steps.
type Run struct {
	Trip         skyscanner.TripParams
	Departure    daterange.Range
	Arrival      daterange.Range
	Spreadsheet  sheets.Config
	Origin       poller.Origin
	SessionsFile string
	Api          Api
}

// Resolve validates the config and builds a Run from it. Every problem is
// reported at once.
func (c Config) Resolve() (Run, error) {
	var errs []error

	err := c.Trip.Validate()
	if err != nil {
		errs = append(errs, err)
	}

	departure, err := c.Departure.resolve("departure")
	if err != nil {
		errs = append(errs, err)
	}
	arrival, err := c.Arrival.resolve("arrival")
	if err != nil {
		errs = append(errs, err)
	}

	origin := c.Spreadsheet.Origin
	if origin.X == 0 {
		origin.X = 1
	}
	if origin.Y == 0 {
		origin.Y = 1
	}
	if origin.X < 1 || origin.Y < 1 {
		errs = append(errs, fmt.Errorf("spreadsheet.origin must be 1-based, got (%d, %d)", origin.X, origin.Y))
	}

	sessionsFile, err := resolveSessionsFile(c.SessionsFile)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Run{}, errors.Join(errs...)
	}
	return Run{
		Trip:         c.Trip,
		Departure:    departure,
		Arrival:      arrival,
		Spreadsheet:  c.Spreadsheet.Config,
		Origin:       origin,
		SessionsFile: sessionsFile,
		Api:          c.Api,
	}, nil
}

func (r DateRange) resolve(name string) (daterange.Range, error) {
	if r.Start == "" {
		return daterange.Range{}, fmt.Errorf("%s.start is required", name)
	}
	out, err := daterange.Parse(r.Start, r.Count)
	if err != nil {
		return daterange.Range{}, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func resolveSessionsFile(path string) (string, error) {
	if path == "" {
		return grid.DefaultPath()
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// Load reads config.json5 and credentials.json5 (and their .local overrides)
// from dir.
func Load(dir string) (Config, Credentials, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return Config{}, Credentials{}, err
	}
	creds, err := configutil.ReadConfig[Credentials](filepath.Join(dir, CredentialsFile))
	if err != nil {
		return Config{}, Credentials{}, fmt.Errorf("read %s: %w", CredentialsFile, err)
	}
	err = creds.Validate()
	if err != nil {
		return Config{}, Credentials{}, fmt.Errorf("%s: %w", CredentialsFile, err)
	}
	return cfg, creds, nil
}

// LoadConfig reads only config.json5, for commands that don't talk to any
// remote service.
func LoadConfig(dir string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](filepath.Join(dir, ConfigFile))
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", ConfigFile, err)
	}
	return cfg, nil
}
