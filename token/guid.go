package token

import "github.com/google/uuid"

// GUIDBytes returns u in GUID byte order: the first three groups are
// little-endian, the last eight bytes are copied as-is.
func GUIDBytes(u uuid.UUID) [16]byte {
	var b [16]byte
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	copy(b[8:], u[8:])
	return b
}

// GUIDFromBytes is the inverse of GUIDBytes. b must hold at least 16 bytes.
func GUIDFromBytes(b []byte) uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:], b[8:16])
	return u
}
