package helper

import (
	"net/http"

	"tasksapi/internal/adapter/http/validation"
	"tasksapi/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := validation.FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}
