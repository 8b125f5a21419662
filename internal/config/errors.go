package config

import "errors"

// Configuration errors. Each aborts initialization.
var (
	ErrInvalidOrfFormat    = errors.New("invalid ORF format")
	ErrInvalidOrfRange     = errors.New("invalid ORF range")
	ErrMissingVariantsFile = errors.New("designed variants file not readable")
)
