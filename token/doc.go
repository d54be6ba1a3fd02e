// Package token encodes small tuples of primitive values into opaque,
// URL-safe continuation tokens.
//
// A token is the Base64URL form of one to three tagged values. Each value
// starts with a one-byte Tag followed by a fixed or length-prefixed payload,
// so a reader always knows how many bytes belong to the value and can check
// that it matches the type the caller asked for.
//
// # Basic Usage
//
// Values are written and read through a Codec, one per supported type:
//
//	tok, err := token.Create(token.Int32, 42)
//
//	id, err := token.Parse(token.Int32, tok)
//	// id == 42
//
// Mixed tuples are positional. Parse with the same codecs, in the same order,
// that were used to create the token:
//
//	tok, _ := token.Create3(token.String, token.Int32, token.GUID, "Active", 7, uuid.Nil)
//	status, n, id, err := token.Parse3(token.String, token.Int32, token.GUID, tok)
//
// Parsing with the wrong codec fails with ErrTypeMismatch instead of
// reinterpreting the bytes:
//
//	tok, _ := token.Create(token.String, "x")
//	_, err := token.Parse(token.Int32, tok) // errors.Is(err, token.ErrTypeMismatch)
//
// # Dynamic Values
//
// Encode accepts plain Go values and picks the codec from the dynamic type.
// Types outside the supported set fail with ErrUnsupportedType. Decode reads
// any token back into tagged fields without knowing the types in advance.
//
// # Wire Layout
//
// All integers and floats are little-endian. Times are 100ns ticks since
// 0001-01-01 UTC. DateTime keeps only the instant and always decodes as UTC;
// use DateTimeOffset when the zone offset matters. GUIDs use the mixed-endian
// byte order of the GUID byte writer (first three groups little-endian).
// Strings are a 4-byte length followed by UTF-8 bytes.
package token
