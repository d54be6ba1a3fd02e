package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncobase/ncrud/ecode"
	"github.com/ncobase/ncrud/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]int{"n": 1})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, float64(1), decode(t, rec)["n"])

	rec = httptest.NewRecorder()
	WithStatusCode(rec, http.StatusCreated, "created")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "created", decode(t, rec)["message"])
}

func TestFailWithError(t *testing.T) {
	_, err := token.Parse(token.Int64, "%%%")
	rec := httptest.NewRecorder()
	FailWithError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(ecode.InvalidCursor), body["code"])
	assert.Equal(t, ecode.Text(ecode.InvalidCursor), body["message"])
}

func TestFailDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	Fail(rec, &Exception{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(ecode.RequestErr), decode(t, rec)["code"])

	rec = httptest.NewRecorder()
	BadRequest(rec, "bad limit", map[string]string{"limit": "invalid"})
	body := decode(t, rec)
	assert.Equal(t, "bad limit", body["message"])
	assert.Equal(t, "invalid", body["errors"].(map[string]any)["limit"])

	rec = httptest.NewRecorder()
	NotFound(rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ecode.Text(ecode.NotFound), decode(t, rec)["message"])
}
