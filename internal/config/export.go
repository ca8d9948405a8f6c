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

	"github.com/FarzamTP/TRACO-HexBug/internal/fsutil"
	"github.com/FarzamTP/TRACO-HexBug/internal/monitoring"
	"github.com/FarzamTP/TRACO-HexBug/internal/traco"
)

// Environment variables that override the file configuration.
const (
	EnvRoiKey      = "TRACO_ROI_KEY"
	EnvIndexColumn = "TRACO_INDEX_COLUMN"
	EnvLogLevel    = "TRACO_LOG_LEVEL"
	EnvLogFormat   = "TRACO_LOG_FORMAT"
)

// DefaultEnvFile is read by ApplyEnv when no file is named.
const DefaultEnvFile = ".env"

// ExportConfig holds the optional export settings. Unset fields fall back to
// the defaults returned by the Get* methods, so partial files are safe.
type ExportConfig struct {
	RoiKey       *string `json:"roi_key,omitempty"`
	TimeColumn   *string `json:"time_column,omitempty"`
	ObjectColumn *string `json:"object_column,omitempty"`
	XColumn      *string `json:"x_column,omitempty"`
	YColumn      *string `json:"y_column,omitempty"`
	IndexColumn  *bool   `json:"index_column,omitempty"`

	LogLevel  *string `json:"log_level,omitempty"`
	LogFormat *string `json:"log_format,omitempty"`
}

func ptrString(v string) *string { return &v }
func ptrBool(v bool) *bool       { return &v }

// EmptyExportConfig returns an ExportConfig with every field unset.
func EmptyExportConfig() *ExportConfig {
	return &ExportConfig{}
}

// LoadExportConfig loads an ExportConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadExportConfig(path string) (*ExportConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyExportConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *ExportConfig) Validate() error {
	if c.RoiKey != nil && *c.RoiKey == "" {
		return fmt.Errorf("roi_key must not be empty")
	}

	cols := c.Columns()
	seen := make(map[string]string, 4)
	for _, col := range []struct{ field, name string }{
		{"time_column", cols.Time},
		{"object_column", cols.Object},
		{"x_column", cols.X},
		{"y_column", cols.Y},
	} {
		if col.name == "" {
			return fmt.Errorf("%s must not be empty", col.field)
		}
		if other, dup := seen[col.name]; dup {
			return fmt.Errorf("%s and %s both name column %q", other, col.field, col.name)
		}
		seen[col.name] = col.field
	}

	if _, err := monitoring.ParseLevel(c.GetLogLevel()); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch c.GetLogFormat() {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.GetLogFormat())
	}
	return nil
}

// ApplyEnv overrides fields from the TRACO_* environment variables. Values
// are looked up in the process environment first, then in the named dotenv
// files (DefaultEnvFile when none are given). Missing dotenv files are
// skipped.
func (c *ExportConfig) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}

	fileVals := map[string]string{}
	for _, path := range envFiles {
		vals, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		for k, v := range vals {
			if _, ok := fileVals[k]; !ok {
				fileVals[k] = v
			}
		}
	}

	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvRoiKey); ok {
		c.RoiKey = ptrString(v)
	}
	if v, ok := lookup(EnvIndexColumn); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvIndexColumn, v, err)
		}
		c.IndexColumn = ptrBool(b)
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = ptrString(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.LogFormat = ptrString(v)
	}
	return c.Validate()
}

// GetRoiKey returns the roi_key value or traco.DefaultRoiKey.
func (c *ExportConfig) GetRoiKey() string {
	if c.RoiKey == nil {
		return traco.DefaultRoiKey
	}
	return *c.RoiKey
}

// GetIndexColumn returns the index_column value or the default (true).
func (c *ExportConfig) GetIndexColumn() bool {
	if c.IndexColumn == nil {
		return true
	}
	return *c.IndexColumn
}

// GetLogLevel returns the log_level value or the default.
func (c *ExportConfig) GetLogLevel() string {
	if c.LogLevel == nil {
		return "info"
	}
	return *c.LogLevel
}

// GetLogFormat returns the log_format value or the default.
func (c *ExportConfig) GetLogFormat() string {
	if c.LogFormat == nil {
		return "text"
	}
	return *c.LogFormat
}

// Columns returns the configured CSV column names, defaulting each unset one.
func (c *ExportConfig) Columns() traco.Columns {
	cols := traco.DefaultColumns()
	if c.TimeColumn != nil {
		cols.Time = *c.TimeColumn
	}
	if c.ObjectColumn != nil {
		cols.Object = *c.ObjectColumn
	}
	if c.XColumn != nil {
		cols.X = *c.XColumn
	}
	if c.YColumn != nil {
		cols.Y = *c.YColumn
	}
	return cols
}

// NewConverter returns a traco.Converter on fsys configured from c.
func (c *ExportConfig) NewConverter(fsys fsutil.FileSystem) *traco.Converter {
	conv := traco.NewConverter(fsys)
	conv.RoiKey = c.GetRoiKey()
	conv.Writer.Columns = c.Columns()
	conv.Writer.IndexColumn = c.GetIndexColumn()
	return conv
}
