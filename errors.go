package autocanon

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .autocanon.yaml is found.
	ErrConfigNotFound = errors.New("autocanon: no .autocanon.yaml found")

	// ErrInvalidConfig is returned when a loaded config fails validation.
	ErrInvalidConfig = errors.New("autocanon: invalid config")

	// ErrUnknownCategory is returned for grammar category keys outside the enumerated set.
	ErrUnknownCategory = errors.New("autocanon: unknown grammar category")

	// ErrInvalidType is returned when a type descriptor cannot be parsed.
	ErrInvalidType = errors.New("autocanon: invalid type")

	// ErrInvalidClass is returned when a class file is structurally invalid.
	ErrInvalidClass = errors.New("autocanon: invalid class")

	// ErrUnknownQuery is returned when a requested query is not in the class.
	ErrUnknownQuery = errors.New("autocanon: unknown query")

	// ErrUnknownArgument is returned when a result names an argument the query lacks.
	ErrUnknownArgument = errors.New("autocanon: unknown argument")
)
