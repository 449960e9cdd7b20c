// Package config provides configuration for reflow behavior: the placement
// policy, indentation, per-language separator overrides, and language pack
// and plugin locations. Configuration is loaded from TOML and can be
// reloaded live through the file watcher.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/argfill/internal/reflow"
)

// ReflowConfig holds the placement policy settings.
type ReflowConfig struct {
	// FallbackFill enables paragraph filling when the cursor is in a
	// comment or string.
	FallbackFill bool `toml:"fallbackFill"`

	// FirstArgSameLine keeps the first item on the opening bracket's line.
	FirstArgSameLine bool `toml:"firstArgSameLine"`

	// SecondArgSameLine starts breaking after the second item.
	SecondArgSameLine bool `toml:"secondArgSameLine"`

	// LastArgSameLine keeps the closing bracket on the last item's line.
	LastArgSameLine bool `toml:"lastArgSameLine"`

	// TrailingSeparator appends a separator after the final item when
	// expanding and keeps one when collapsing.
	TrailingSeparator bool `toml:"trailingSeparator"`

	// Separator delimits list items.
	Separator string `toml:"separator"`

	// SeparatorIsPattern treats Separator as a regular expression.
	SeparatorIsPattern bool `toml:"separatorIsPattern"`

	// FillColumn is the line width for paragraph filling.
	FillColumn int `toml:"fillColumn"`
}

// IndentConfig holds re-indentation settings.
type IndentConfig struct {
	// UseTabs indents with tabs instead of spaces.
	UseTabs bool `toml:"useTabs"`

	// IndentSize is the number of spaces per indentation level.
	IndentSize int `toml:"indentSize"`
}

// LanguageOverride adjusts separator handling for one language.
type LanguageOverride struct {
	// Separator overrides the list separator.
	Separator string `toml:"separator"`

	// SeparatorIsPattern treats the override as a regular expression.
	SeparatorIsPattern bool `toml:"separatorIsPattern"`
}

// Config is the root configuration.
type Config struct {
	Reflow ReflowConfig `toml:"reflow"`
	Indent IndentConfig `toml:"indent"`

	// Languages maps language names to separator overrides.
	Languages map[string]LanguageOverride `toml:"languages"`

	// LanguagePacks lists YAML language definition files to load.
	LanguagePacks []string `toml:"languagePacks"`

	// PluginDir is the directory of Lua plugin scripts.
	PluginDir string `toml:"pluginDir"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Reflow: ReflowConfig{
			FallbackFill: true,
			Separator:    reflow.DefaultSeparator,
			FillColumn:   reflow.DefaultFillColumn,
		},
		Indent: IndentConfig{
			IndentSize: 4,
		},
	}
}

// Policy converts the reflow section to a placement policy.
func (c *Config) Policy() reflow.Policy {
	return reflow.Policy{
		FirstArgSameLine:   c.Reflow.FirstArgSameLine,
		SecondArgSameLine:  c.Reflow.SecondArgSameLine,
		LastArgSameLine:    c.Reflow.LastArgSameLine,
		TrailingSeparator:  c.Reflow.TrailingSeparator,
		Separator:          c.Reflow.Separator,
		SeparatorIsPattern: c.Reflow.SeparatorIsPattern,
		FallbackFill:       c.Reflow.FallbackFill,
		FillColumn:         c.Reflow.FillColumn,
	}
}

// IndentUnit returns one level of indentation as a string.
func (c *Config) IndentUnit() string {
	if c.Indent.UseTabs {
		return "\t"
	}
	size := c.Indent.IndentSize
	if size <= 0 {
		size = 4
	}
	return strings.Repeat(" ", size)
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Reflow.FillColumn < 0 {
		return fmt.Errorf("%w: fillColumn %d", ErrInvalidValue, c.Reflow.FillColumn)
	}
	if c.Indent.IndentSize < 0 {
		return fmt.Errorf("%w: indentSize %d", ErrInvalidValue, c.Indent.IndentSize)
	}
	if c.Reflow.SeparatorIsPattern {
		if _, err := regexp.Compile(c.Reflow.Separator); err != nil {
			return fmt.Errorf("%w: separator pattern %q: %v", ErrInvalidValue, c.Reflow.Separator, err)
		}
	}
	for name, ov := range c.Languages {
		if ov.SeparatorIsPattern {
			if _, err := regexp.Compile(ov.Separator); err != nil {
				return fmt.Errorf("%w: language %s separator pattern %q: %v", ErrInvalidValue, name, ov.Separator, err)
			}
		}
	}
	return nil
}
