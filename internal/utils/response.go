// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The API speaks the same wire format as the clients it was built for:
// entities are returned raw, everything else is a {"message": ...} object.
type APIMessage struct {
	Message string `json:"message"`
}

func MessageResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIMessage{Message: message})
}

func OKResponse(c *gin.Context, entity interface{}) {
	c.JSON(http.StatusOK, entity)
}

func CreatedResponse(c *gin.Context, entity interface{}) {
	c.JSON(http.StatusCreated, entity)
}

func BadRequestResponse(c *gin.Context, message string) {
	MessageResponse(c, http.StatusBadRequest, message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required."
	}
	MessageResponse(c, http.StatusUnauthorized, message)
}

func ForbiddenResponse(c *gin.Context, message string) {
	MessageResponse(c, http.StatusForbidden, message)
}

func NotFoundResponse(c *gin.Context, message string) {
	MessageResponse(c, http.StatusNotFound, message)
}

func ConflictResponse(c *gin.Context, message string) {
	MessageResponse(c, http.StatusConflict, message)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error."
	}
	MessageResponse(c, http.StatusInternalServerError, message)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	message := "Invalid request."
	if len(errors) > 0 {
		message = errors[0].Message
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"message": message,
		"errors":  errors,
	})
}

func GetServiceIDFromContext(c *gin.Context) (string, bool) {
	if serviceID, exists := c.Get("service_id"); exists {
		if s, ok := serviceID.(string); ok {
			return s, true
		}
	}
	return "", false
}
