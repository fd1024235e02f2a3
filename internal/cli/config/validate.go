package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/leapstack-labs/datecol/pkg/adapter"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return dialect.ErrDialectRequired
	}
	if _, ok := dialect.Get(c.Dialect); !ok {
		return fmt.Errorf("unknown dialect %q (available: %s)", c.Dialect, strings.Join(dialect.List(), ", "))
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.LocaleTag(); err != nil {
		return err
	}
	switch c.Output {
	case OutputAuto, OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want auto, table, json or yaml)", c.Output)
	}
	for name, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("target %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if _, ok := adapter.Lookup(t.Type); !ok {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	return nil
}

// DialectValue returns the configured dialect.
func (c *Config) DialectValue() (*dialect.Dialect, error) {
	d, ok := dialect.Get(c.Dialect)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q", c.Dialect)
	}
	return d, nil
}

// Location resolves the timezone setting. "Local" and "" mean time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LocaleTag parses the locale setting. An empty locale is language.Und.
func (c *Config) LocaleTag() (language.Tag, error) {
	if c.Locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}
