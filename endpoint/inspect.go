package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/ncrud/ecode"
	"github.com/ncobase/ncrud/net/resp"
	"github.com/ncobase/ncrud/token"
)

// FieldView is the JSON form of one decoded token value.
type FieldView struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Inspect decodes the token in the "token" path parameter, or the "cursor"
// query parameter, and lists its typed values. It is a debugging aid.
func Inspect() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := c.Param("token")
		if tok == "" {
			tok = c.Query("cursor")
		}
		if tok == "" {
			resp.BadRequest(c.Writer, ecode.FieldIsRequired("token"))
			return
		}

		fields, err := token.Decode(tok)
		if err != nil {
			resp.FailWithError(c.Writer, err)
			return
		}
		views := make([]FieldView, len(fields))
		for i, f := range fields {
			views[i] = FieldView{Type: f.Tag.String(), Value: f.String()}
		}
		resp.Success(c.Writer, map[string]any{"fields": views})
	}
}
