package matprop

import "errors"

var (
	// ErrUnknownFormat indicates an unsupported state encoding.
	ErrUnknownFormat = errors.New("unknown state format")

	// ErrDuplicateParameter indicates two parameters share a name in one set.
	ErrDuplicateParameter = errors.New("duplicate parameter")

	// ErrUnknownTexture indicates a persisted texture name has no entry in the
	// texture library.
	ErrUnknownTexture = errors.New("unknown texture")

	// ErrUnknownPropertyType indicates a property type outside the known set.
	ErrUnknownPropertyType = errors.New("unknown property type")
)
