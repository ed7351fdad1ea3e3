package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every error body.
type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{
		Success: success,
		Code:    code,
		Extras:  extras,
	}
}

// SuccessResponse writes payload as-is with status 200.
func SuccessResponse(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// CreatedResponse writes payload as-is with status 201.
func CreatedResponse(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorResponse writes the error envelope with a plain message and aborts the chain.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(
		code,
		NewResponse(
			false,
			code,
			ErrorExtras{Message: message},
		))
}
