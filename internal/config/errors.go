package config

import "errors"

var (
	// ErrInvalidValue indicates a configuration value that cannot work.
	ErrInvalidValue = errors.New("invalid configuration value")

	// ErrParse indicates the configuration file could not be parsed.
	ErrParse = errors.New("configuration parse error")
)
