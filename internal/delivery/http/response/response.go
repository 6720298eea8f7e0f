package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse is the body of a successful submission
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string) {
	c.JSON(code, SuccessResponse{
		Success: true,
		Message: message,
	})
}

// Error sends an error response. Request ids travel in the X-Request-ID
// header so the body stays exactly {"error": message}.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}
