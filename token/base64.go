package token

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeBase64URL encodes b with the URL-safe alphabet and no padding.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL decodes a URL-safe Base64 string. Trailing padding is accepted
// but not required.
func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return b, nil
}
