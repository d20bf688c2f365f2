package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/germanamz/ngx-renamer/pkg/logging"
	"github.com/germanamz/ngx-renamer/pkg/modeladapter"
	"github.com/germanamz/ngx-renamer/pkg/paperless"
	"github.com/germanamz/ngx-renamer/pkg/renamer"
	"github.com/germanamz/ngx-renamer/pkg/settings"
)

// Environment variables read by the CLI besides provider credentials.
const (
	envDocumentID     = "DOCUMENT_ID"
	envRunDir         = "RUN_DIR"
	envPaperlessURL   = "PAPERLESS_NGX_URL"
	envPaperlessToken = "PAPERLESS_NGX_API_KEY" //nolint:gosec // variable name, not a secret
)

// commandContext holds flag values and the lazily built components shared by
// every subcommand.
type commandContext struct {
	runDir       string
	settingsPath string
	envFile      string
	logLevel     string
	logFormat    string

	paperlessURL   string
	paperlessToken string
	dryRun         bool

	stderr io.Writer

	setupOnce sync.Once
	settings  *settings.Settings
	log       *slog.Logger
	setupErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{stderr: os.Stderr}
}

// resolvedRunDir returns the --run-dir flag, then $RUN_DIR, then ".".
func (c *commandContext) resolvedRunDir() string {
	if dir := strings.TrimSpace(c.runDir); dir != "" {
		return dir
	}
	if dir := strings.TrimSpace(os.Getenv(envRunDir)); dir != "" {
		return dir
	}

	return "."
}

func (c *commandContext) resolvedSettingsPath() string {
	if p := strings.TrimSpace(c.settingsPath); p != "" {
		return p
	}

	return filepath.Join(c.resolvedRunDir(), "settings.yaml")
}

// loadEnv loads the .env file into the process environment. A missing file
// is not an error; variables already set are not overridden.
func (c *commandContext) loadEnv() error {
	path := strings.TrimSpace(c.envFile)
	if path == "" {
		path = filepath.Join(c.resolvedRunDir(), ".env")
	}

	return loadDotEnv(path)
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: load %s: %w", renamer.ErrConfiguration, path, err)
	}

	return nil
}

// setup loads settings and builds the logger once. A settings file that
// cannot be read is logged and treated as absent.
func (c *commandContext) setup() (*settings.Settings, *slog.Logger, error) {
	c.setupOnce.Do(func() {
		boot, err := logging.New(c.logOptions(nil))
		if err != nil {
			c.setupErr = fmt.Errorf("%w: %w", renamer.ErrConfiguration, err)
			return
		}

		c.settings = settings.LoadLenient(c.resolvedSettingsPath(), boot)

		log, err := logging.New(c.logOptions(c.settings))
		if err != nil {
			c.setupErr = fmt.Errorf("%w: %w", renamer.ErrConfiguration, err)
			return
		}

		c.log = log.With(logging.FieldRunID, uuid.NewString())
	})

	return c.settings, c.log, c.setupErr
}

// logOptions merges flags over the settings log block.
func (c *commandContext) logOptions(s *settings.Settings) logging.Options {
	opts := logging.Options{Level: c.logLevel, Format: c.logFormat, Writer: c.stderr}
	if s != nil {
		if opts.Level == "" {
			opts.Level = s.Log.Level
		}
		if opts.Format == "" {
			opts.Format = s.Log.Format
		}
	}

	return opts
}

// generator builds the provider selected in settings.
func (c *commandContext) generator() (modeladapter.TitleGenerator, *slog.Logger, error) {
	s, log, err := c.setup()
	if err != nil {
		return nil, nil, err
	}

	name := s.ProviderName()
	g, err := renamer.CreateProvider(name, renamer.CredentialsFromEnv(), s, renamer.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}

	return g, log.With(logging.FieldProvider, name), nil
}

// pipeline builds the full rename flow against Paperless.
func (c *commandContext) pipeline() (*renamer.Renamer, *slog.Logger, error) {
	g, log, err := c.generator()
	if err != nil {
		return nil, nil, err
	}

	url := firstNonEmpty(c.paperlessURL, os.Getenv(envPaperlessURL))
	if url == "" {
		return nil, nil, fmt.Errorf("%w: %s is required (or pass --paperless-url)", renamer.ErrConfiguration, envPaperlessURL)
	}

	token := firstNonEmpty(c.paperlessToken, os.Getenv(envPaperlessToken))
	if token == "" {
		return nil, nil, fmt.Errorf("%w: %s is required (or pass --paperless-api-key)", renamer.ErrConfiguration, envPaperlessToken)
	}

	s, _, _ := c.setup()
	client := paperless.New(url, token, nil)
	client.HTTP.Timeout = s.HTTPTimeout()
	client.Log = log

	r := renamer.New(client, g, log)
	r.DryRun = c.dryRun

	return r, log, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
