package ecode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ncobase/ncrud/token"
	"github.com/ncobase/ncrud/typebuf"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	_, err := token.Parse(token.Int32, "!!")
	assert.Equal(t, InvalidCursor, FromError(err))

	tok, _ := token.Create(token.String, "x")
	_, err = token.Parse(token.Int32, tok)
	assert.Equal(t, CursorMismatch, FromError(err))

	_, _, err = typebuf.Extract(nil)
	assert.Equal(t, InvalidFrame, FromError(err))

	assert.Equal(t, OK, FromError(nil))
	assert.Equal(t, ServerErr, FromError(errors.New("boom")))
	assert.Equal(t, UnsupportedType, FromError(fmt.Errorf("wrap: %w", token.ErrUnsupportedType)))
}

func TestRegister(t *testing.T) {
	Register(-1002, "Order has expired", http.StatusGone)
	assert.Equal(t, "Order has expired", Text(-1002))
	assert.Equal(t, http.StatusGone, ToHTTPStatus(-1002))

	Register(-1003, "Custom")
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(-1003))

	assert.Equal(t, Text(ServerErr), Text(-9999))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(-9999))
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(InvalidCursor))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "cursor invalid", FieldIsInvalid("cursor"))
	assert.Equal(t, "invalid", FieldIsInvalid())
	assert.Equal(t, "limit required", FieldIsRequired("limit"))
}
