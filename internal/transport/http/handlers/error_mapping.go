package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

const validationFailedMessage = "validation failed"

// ErrorCase maps a sentinel error to a status. An empty Message echoes the error text.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

var defaultErrorCases = []ErrorCase{
	{Err: domain.ErrNotFound, Status: http.StatusNotFound},
	{Err: repository.ErrConflict, Status: http.StatusConflict, Message: "resource conflicts with existing data"},
}

// RespondWithMappedError resolves err against cases, then the defaults, then falls back to 500.
func RespondWithMappedError(c *gin.Context, err error, cases ...ErrorCase) {
	for _, cs := range append(cases, defaultErrorCases...) {
		if cs.Err == nil || !errors.Is(err, cs.Err) {
			continue
		}
		message := cs.Message
		if message == "" {
			message = err.Error()
		}
		c.JSON(cs.Status, NewErrorResponse(c, message))
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
}

// RespondWithNotification renders every accumulated validation error as 422.
func RespondWithNotification(c *gin.Context, n *validation.Notification) {
	errs := n.Errors()
	if errs == nil {
		errs = []validation.Error{}
	}
	c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Message:   validationFailedMessage,
		Errors:    errs,
		RequestID: c.GetString(requestIDKey),
	})
}

// respond renders the two-tier outcome of a use case.
func respond[T any](c *gin.Context, result either.Either[*validation.Notification, T], err error, status int, body func(T) any) {
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}
	if result.IsLeft() {
		RespondWithNotification(c, result.LeftValue())
		return
	}
	if body == nil {
		c.Status(status)
		return
	}
	c.JSON(status, body(result.RightValue()))
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "malformed request body"))
		return false
	}
	return true
}
