package omnitable

import "errors"

// Common errors returned by omnitable stores, decoders and the loader.
var (
	// ErrNotFound is returned when an object or bucket does not exist.
	ErrNotFound = errors.New("omnitable: not found")

	// ErrPermissionDenied is returned when access to an object is denied.
	ErrPermissionDenied = errors.New("omnitable: permission denied")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("omnitable: store closed")

	// ErrInvalidKey is returned when a key or bucket name is malformed.
	ErrInvalidKey = errors.New("omnitable: invalid key")

	// ErrUnknownStore is returned by Open when the store name is not registered.
	ErrUnknownStore = errors.New("omnitable: unknown store")

	// ErrCorruptObject is returned by decoders when an object cannot be parsed.
	ErrCorruptObject = errors.New("omnitable: corrupt object")

	// ErrChecksumMismatch is returned when fetched bytes do not match the listed checksum.
	ErrChecksumMismatch = errors.New("omnitable: checksum mismatch")
)

// IsNotFound returns true if the error indicates an object was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPermissionDenied returns true if the error indicates permission was denied.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsCorrupt returns true if the error indicates an undecodable object.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptObject)
}
