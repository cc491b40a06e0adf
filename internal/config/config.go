package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configurable paths and batch settings.
type Config struct {
	// Paths
	Project     string `json:"project"`
	OutputDir   string `json:"output_dir"`
	ArchiveName string `json:"archive_name"`

	// Output settings
	Format        string `json:"format"`
	Quality       int    `json:"quality"`
	Interpolation string `json:"interpolation"`
	Manifest      bool   `json:"manifest"`

	// Scheduling
	Workers int `json:"workers"`
	YieldMS int `json:"yield_ms"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadEnv loads a .env file into the process environment. A missing file
// is not an error. Variables already set are not overridden.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: env %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from STAMPER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("STAMPER_PROJECT"); v != "" {
		c.Project = v
	}
	if v := os.Getenv("STAMPER_OUTPUT"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("STAMPER_FORMAT"); v != "" {
		c.Format = v
	}
	for name, dst := range map[string]*int{
		"STAMPER_QUALITY":  &c.Quality,
		"STAMPER_WORKERS":  &c.Workers,
		"STAMPER_YIELD_MS": &c.YieldMS,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Project   string
	OutputDir string
	Format    string
	Quality   int
	Workers   int
	YieldMS   int
}

// Resolve applies flags over the current values and fills defaults.
// CLI flags take priority when non-zero/non-empty. Relative output paths
// resolve against the project file's directory.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file and environment
	if flags.Project != "" {
		c.Project = flags.Project
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.YieldMS > 0 {
		c.YieldMS = flags.YieldMS
	}

	baseDir := ""
	if c.Project != "" {
		baseDir = filepath.Dir(c.Project)
	}
	if c.OutputDir == "" {
		c.OutputDir = baseDir
	} else if !filepath.IsAbs(c.OutputDir) && baseDir != "" {
		c.OutputDir = filepath.Join(baseDir, c.OutputDir)
	}

	// Defaults for output settings
	if c.ArchiveName == "" {
		c.ArchiveName = "composites.zip"
	}
	if c.Format == "" {
		c.Format = "jpg"
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = 70
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.YieldMS < 0 {
		c.YieldMS = 0
	}
}

// ArchivePath returns where the archive is written.
func (c Config) ArchivePath() string {
	return filepath.Join(c.OutputDir, c.ArchiveName)
}
