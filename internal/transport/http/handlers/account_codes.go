package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/usecase"
)

type AccountCodeUseCases interface {
	CreateAccountCode(ctx context.Context, cmd usecase.CreateAccountCodeCommand) (either.Either[*validation.Notification, usecase.AccountCodeOutput], error)
	GetAccountCode(ctx context.Context, code string) (*domain.AccountCode, error)
	ExchangeAccountCode(ctx context.Context, cmd usecase.ExchangeAccountCodeCommand) (either.Either[*validation.Notification, usecase.ExchangeAccountCodeOutput], error)
}

type AccountCodeHandler struct {
	codes AccountCodeUseCases
}

func NewAccountCodeHandler(codes AccountCodeUseCases) *AccountCodeHandler {
	return &AccountCodeHandler{codes: codes}
}

func (h *AccountCodeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("/:code", h.Get)
	r.POST("/exchange", h.Exchange)
}

func (h *AccountCodeHandler) Create(c *gin.Context) {
	var req CreateAccountCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.codes.CreateAccountCode(c.Request.Context(), usecase.CreateAccountCodeCommand{
		AccountID:     req.AccountID,
		CodeChallenge: req.CodeChallenge,
	})
	respond(c, result, err, http.StatusCreated, func(out usecase.AccountCodeOutput) any {
		return AccountCodeResponse{ID: out.ID.String(), Code: out.Code, AccountID: out.AccountID.String()}
	})
}

func (h *AccountCodeHandler) Get(c *gin.Context) {
	code, err := h.codes.GetAccountCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, AccountCodeResponse{ID: code.ID.String(), Code: code.Code, AccountID: code.AccountID.String()})
}

func (h *AccountCodeHandler) Exchange(c *gin.Context) {
	var req ExchangeAccountCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.codes.ExchangeAccountCode(c.Request.Context(), usecase.ExchangeAccountCodeCommand{
		Code:         req.Code,
		CodeVerifier: req.CodeVerifier,
	})
	respond(c, result, err, http.StatusOK, func(out usecase.ExchangeAccountCodeOutput) any {
		return AccessTokenResponse{
			AccessToken: out.AccessToken,
			TokenType:   "Bearer",
			AccountID:   out.AccountID.String(),
			ExpiresAt:   out.ExpiresAt,
		}
	})
}
