package settings

import "errors"

var (
	// ErrUnknownKey is returned by Set and SetBulk for keys outside the schema.
	ErrUnknownKey = errors.New("unknown settings key")
	// ErrInvalidValue is returned when a value cannot be coerced to the
	// field type or is outside its allowed variants.
	ErrInvalidValue = errors.New("invalid settings value")
	// ErrNoServer is returned by BaseURL while no server API is resolved.
	ErrNoServer = errors.New("no server resolved")
)
