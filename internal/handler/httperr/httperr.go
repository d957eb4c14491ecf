package httperr

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Reason  string `json:"reason,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, msg, "", detail)
}

// AbortWithReason adds a machine-readable reason code, used for capacity
// conflicts where the client distinguishes "day full" from "personal limit".
func AbortWithReason(c *gin.Context, status int, err error, msg, reason string) {
	abort(c, status, err, msg, reason, nil)
}

func abort(c *gin.Context, status int, err error, msg, reason string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Reason = reason
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
