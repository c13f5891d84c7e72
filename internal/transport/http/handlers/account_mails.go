package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/usecase"
)

// AccountMailUseCases issues and consumes mail tokens.
type AccountMailUseCases interface {
	RequestAccountConfirmation(ctx context.Context, cmd usecase.RequestAccountConfirmationCommand) (either.Either[*validation.Notification, usecase.AccountMailOutput], error)
	ConfirmAccountMail(ctx context.Context, cmd usecase.ConfirmAccountMailCommand) (either.Either[*validation.Notification, usecase.ConsumeAccountMailOutput], error)
	RequestPasswordReset(ctx context.Context, cmd usecase.RequestPasswordResetCommand) (either.Either[*validation.Notification, usecase.AccountMailOutput], error)
	ResetPassword(ctx context.Context, cmd usecase.ResetPasswordCommand) (either.Either[*validation.Notification, usecase.ConsumeAccountMailOutput], error)
}

type AccountMailHandler struct {
	mails AccountMailUseCases
}

func NewAccountMailHandler(mails AccountMailUseCases) *AccountMailHandler {
	return &AccountMailHandler{mails: mails}
}

// RegisterRoutes binds the endpoints; requestLimits guard the endpoints that send mail.
func (h *AccountMailHandler) RegisterRoutes(r *gin.RouterGroup, requestLimits ...gin.HandlerFunc) {
	r.POST("/confirmation", chain(requestLimits, h.RequestConfirmation)...)
	r.POST("/confirmation/confirm", h.Confirm)
	r.POST("/password-reset", chain(requestLimits, h.RequestPasswordReset)...)
	r.POST("/password-reset/confirm", h.ResetPassword)
}

func (h *AccountMailHandler) RequestConfirmation(c *gin.Context) {
	var req RequestConfirmationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.mails.RequestAccountConfirmation(c.Request.Context(), usecase.RequestAccountConfirmationCommand{AccountID: req.AccountID})
	respond(c, result, err, http.StatusCreated, mailResponse)
}

func (h *AccountMailHandler) Confirm(c *gin.Context) {
	var req ConfirmAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.mails.ConfirmAccountMail(c.Request.Context(), usecase.ConfirmAccountMailCommand{Token: req.Token})
	respond(c, result, err, http.StatusOK, consumedResponse)
}

func (h *AccountMailHandler) RequestPasswordReset(c *gin.Context) {
	var req RequestPasswordResetRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.mails.RequestPasswordReset(c.Request.Context(), usecase.RequestPasswordResetCommand{Email: req.Email})
	respond(c, result, err, http.StatusCreated, mailResponse)
}

func (h *AccountMailHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.mails.ResetPassword(c.Request.Context(), usecase.ResetPasswordCommand{Token: req.Token, Password: req.Password})
	respond(c, result, err, http.StatusOK, consumedResponse)
}

func mailResponse(out usecase.AccountMailOutput) any {
	return AccountMailResponse{ID: out.ID.String(), AccountID: out.AccountID.String(), ExpiresAt: out.ExpiresAt}
}

func consumedResponse(out usecase.ConsumeAccountMailOutput) any {
	return AccountIDResponse{AccountID: out.AccountID.String()}
}

func chain(middlewares []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	out = append(out, middlewares...)
	return append(out, handler)
}
