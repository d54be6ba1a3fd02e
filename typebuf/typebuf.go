// Package typebuf frames a binary payload with the name of its logical type,
// so receivers can route a message before deserializing it.
//
// Layout:
//
//	+----------------+------------------+-----------------+
//	| name len (4 BE)| name (UTF-8)     | payload ...     |
//	+----------------+------------------+-----------------+
package typebuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const headerSize = 4

// ErrInvalidArgument is returned for empty type names and corrupt frames.
var ErrInvalidArgument = errors.New("typebuf: invalid argument")

// Prefix returns a new buffer holding typeName followed by payload.
func Prefix(typeName string, payload []byte) ([]byte, error) {
	if typeName == "" {
		return nil, fmt.Errorf("%w: type name is empty", ErrInvalidArgument)
	}
	if len(typeName) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: type name too long", ErrInvalidArgument)
	}

	buf := make([]byte, headerSize+len(typeName)+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(typeName)))
	n := copy(buf[headerSize:], typeName)
	copy(buf[headerSize+n:], payload)
	return buf, nil
}

// Extract splits a framed buffer into its type name and a copy of the payload.
func Extract(buf []byte) (string, []byte, error) {
	name, end, err := header(buf)
	if err != nil {
		return "", nil, err
	}
	payload := make([]byte, len(buf)-end)
	copy(payload, buf[end:])
	return name, payload, nil
}

// Peek returns the type name without copying the payload.
func Peek(buf []byte) (string, error) {
	name, _, err := header(buf)
	return name, err
}

// header validates the frame and returns the name and the payload offset.
func header(buf []byte) (string, int, error) {
	if len(buf) < headerSize {
		return "", 0, fmt.Errorf("%w: buffer of %d bytes is shorter than the header", ErrInvalidArgument, len(buf))
	}
	n := binary.BigEndian.Uint32(buf)
	if uint64(n) > uint64(len(buf)-headerSize) {
		return "", 0, fmt.Errorf("%w: type name length %d exceeds %d remaining bytes", ErrInvalidArgument, n, len(buf)-headerSize)
	}
	end := headerSize + int(n)
	return string(buf[headerSize:end]), end, nil
}
