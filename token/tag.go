package token

import "fmt"

// Tag is the one-byte type marker written in front of every value.
type Tag byte

const (
	TagBool           Tag = 0x01
	TagByte           Tag = 0x02
	TagInt16          Tag = 0x03
	TagInt32          Tag = 0x04
	TagInt64          Tag = 0x05
	TagDecimal        Tag = 0x06
	TagFloat64        Tag = 0x07
	TagDateTime       Tag = 0x08
	TagDateTimeOffset Tag = 0x09
	TagGUID           Tag = 0x0A
	TagString         Tag = 0x0B
)

var tagNames = map[Tag]string{
	TagBool:           "bool",
	TagByte:           "byte",
	TagInt16:          "int16",
	TagInt32:          "int32",
	TagInt64:          "int64",
	TagDecimal:        "decimal",
	TagFloat64:        "float64",
	TagDateTime:       "datetime",
	TagDateTimeOffset: "datetimeoffset",
	TagGUID:           "guid",
	TagString:         "string",
}

// String returns the type name of the tag.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(0x%02x)", byte(t))
}

// Valid reports whether t is a known tag.
func (t Tag) Valid() bool {
	_, ok := tagNames[t]
	return ok
}

// ParseTag resolves a type name as returned by Tag.String.
func ParseTag(name string) (Tag, bool) {
	for t, n := range tagNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}
