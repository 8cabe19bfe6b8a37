package docnum

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"
)

// Config contains all configuration options for the docnum engine.
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off).
	LogLevel string
	// NativeNumbering selects native w:numPr numbering. When false,
	// builders fall back to literal glyph prefixes and reconciliation
	// leaves those paragraphs alone.
	NativeNumbering bool
	// StripForeignCellGlyphs extends bullet-glyph stripping to table
	// cells whose content references styles unknown to the current
	// document (typically pasted from another document). Off by default:
	// the origin of such content is ambiguous.
	StripForeignCellGlyphs bool
	// ReconcileBudget is the advisory time budget for one reconciliation
	// pass. Exceeding it logs a warning; the pass always runs to
	// completion.
	ReconcileBudget time.Duration
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:               "info",
		NativeNumbering:        true,
		StripForeignCellGlyphs: false,
		ReconcileBudget:        200 * time.Millisecond,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// DOCNUM_LOG_LEVEL
	if val := os.Getenv("DOCNUM_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// DOCNUM_NATIVE_NUMBERING
	if val := os.Getenv("DOCNUM_NATIVE_NUMBERING"); val != "" {
		config.NativeNumbering = parseBool(val)
	}

	// DOCNUM_STRIP_FOREIGN_CELL_GLYPHS
	if val := os.Getenv("DOCNUM_STRIP_FOREIGN_CELL_GLYPHS"); val != "" {
		config.StripForeignCellGlyphs = parseBool(val)
	}

	// DOCNUM_RECONCILE_BUDGET
	if val := os.Getenv("DOCNUM_RECONCILE_BUDGET"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.ReconcileBudget = duration
		}
	}

	return config
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.ReconcileBudget < 0 {
		return errors.New("reconcile budget cannot be negative")
	}

	return nil
}

// GetGlobalConfig returns the global configuration.
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration.
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
