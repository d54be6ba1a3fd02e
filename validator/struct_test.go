package validator

import (
	"testing"

	"github.com/ncobase/ncrud/token"
	"github.com/stretchr/testify/assert"
)

type listQuery struct {
	Cursor string `form:"cursor" validate:"omitempty,cursor"`
	Limit  int    `json:"limit" validate:"gte=0,lte=100"`
	Sort   string `form:"sort" validate:"omitempty,oneof=asc desc"`
}

func TestValidateStruct(t *testing.T) {
	tok, err := token.Create(token.Int64, 7)
	assert.NoError(t, err)

	assert.Empty(t, ValidateStruct(&listQuery{Cursor: tok, Limit: 10}))
	assert.Empty(t, ValidateStruct(listQuery{}))

	errs := ValidateStruct(&listQuery{Cursor: "a+b/", Limit: 500, Sort: "up"})
	assert.Len(t, errs, 3)
	assert.Equal(t, "The field 'cursor' must be a continuation token.", errs["cursor"])
	assert.Equal(t, "The field 'limit' must be less than or equal to 100.", errs["limit"])
	assert.Contains(t, errs, "sort")
}

func TestValidateStructLanguage(t *testing.T) {
	errs := ValidateStruct(&listQuery{Limit: -1}, "zh")
	assert.Equal(t, "字段 'limit' 的值必须大于或等于 0。", errs["limit"])

	errs = ValidateStruct(&listQuery{Limit: -1}, "fr")
	assert.Equal(t, "Field 'limit' is invalid: gte", errs["limit"])
}
