// Package apierr defines the error object returned by every API endpoint.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error is an API error: an HTTP status code, a dotted machine-readable
// message and a sentence suitable for showing to an operator.
type Error struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	HumanMessage string `json:"humanMessage"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Message, e.Code, e.HumanMessage)
}

// Is matches errors with the same code and message so that callers can
// compare against the constructors below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func newError(code int, message, human string) *Error {
	return &Error{Code: code, Message: message, HumanMessage: human}
}

func Internal() *Error {
	return newError(http.StatusInternalServerError, "internal.error", "Something went wrong")
}

func RepairmanNotFound(id int64) *Error {
	return newError(http.StatusNotFound, "repairman.absent.error",
		fmt.Sprintf("Repairman with id=%d not found", id))
}

func SpaceshipNotFound(serial int64) *Error {
	return newError(http.StatusNotFound, "spaceship.absent.error",
		fmt.Sprintf("Spaceship with serial=%d not found", serial))
}

func MaintenanceRequestNotFound(id int64) *Error {
	return newError(http.StatusNotFound, "maintenance.request.absent.error",
		fmt.Sprintf("Maintenance request with id=%d not found", id))
}

func RepairmanValidation() *Error {
	return newError(http.StatusBadRequest, "repairman.validation.error",
		"Name and position are required to create a repairman")
}

func SpaceshipSerialRequired() *Error {
	return newError(http.StatusBadRequest, "spaceship.serial.required.error",
		"Serial number is required to create a spaceship")
}

func SpaceshipRequiredFields() *Error {
	return newError(http.StatusBadRequest, "spaceship.required.fields.error",
		"Manufacturer, name, manufacture date and type are required to create a spaceship")
}

func SpaceshipDuplicate(serial int64) *Error {
	return newError(http.StatusConflict, "spaceship.duplicate.error",
		fmt.Sprintf("Spaceship with serial=%d already exists", serial))
}

func MaintenanceRequestSpaceshipSerialRequired() *Error {
	return newError(http.StatusBadRequest, "maintenance.request.spaceship.serial.required.error",
		"Spaceship serial is required to create a maintenance request")
}

func MaintenanceRequestCommentRequired() *Error {
	return newError(http.StatusBadRequest, "maintenance.request.comment.required.error",
		"Comment is required to create a maintenance request")
}

func MaintenanceRequestStatusTransition(from, to string) *Error {
	return newError(http.StatusBadRequest, "maintenance.request.status.transition.error",
		fmt.Sprintf("Status transition from %q to %q is not allowed", from, to))
}

func MaintenanceRequestImmutable(id int64, status string) *Error {
	return newError(http.StatusConflict, "maintenance.request.immutable.error",
		fmt.Sprintf("Maintenance request %d is %s and can no longer be changed", id, status))
}

func Validation(message string) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return newError(http.StatusBadRequest, "validation.error", message)
}

func InvalidJSON() *Error {
	return newError(http.StatusBadRequest, "invalid.json.error", "Request body is not valid JSON")
}

func InvalidParameterType(name, expected string) *Error {
	return newError(http.StatusBadRequest, "invalid.parameter.type.error",
		fmt.Sprintf("Invalid type of parameter '%s': expected %s", name, expected))
}

// From classifies err: *Error values pass through, anything else becomes
// an internal error.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal()
}

// Respond writes err as an error object and aborts the gin context.
func Respond(c *gin.Context, logger *zap.Logger, err error) {
	apiErr := From(err)
	if apiErr.Code >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	} else {
		logger.Warn("Request rejected",
			zap.String("path", c.FullPath()),
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message))
	}
	c.AbortWithStatusJSON(apiErr.Code, apiErr)
}

// Recovery turns panics into an internal error object.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Unhandled panic", zap.Any("panic", recovered), zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, Internal())
	})
}
