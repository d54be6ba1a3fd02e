package token

import "errors"

var (
	// ErrUnsupportedType is returned when a value has no codec.
	ErrUnsupportedType = errors.New("token: unsupported type")
	// ErrTypeMismatch is returned when the tag read does not match the requested codec.
	ErrTypeMismatch = errors.New("token: type mismatch")
	// ErrMalformed is returned for undecodable, truncated or corrupt tokens.
	ErrMalformed = errors.New("token: malformed token")
	// ErrTrailingData is returned when bytes remain after the requested values.
	ErrTrailingData = errors.New("token: trailing data")
	// ErrArity is returned when Encode gets no values or more than three.
	ErrArity = errors.New("token: expected 1 to 3 values")
	// ErrOffsetRange is returned for zone offsets that are not whole minutes within ±14h.
	ErrOffsetRange = errors.New("token: offset out of range")
	// ErrInvalidDecimal is returned for decimals that do not fit 96 bits with scale 0..28.
	ErrInvalidDecimal = errors.New("token: invalid decimal")
)
