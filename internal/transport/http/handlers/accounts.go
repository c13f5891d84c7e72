package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/usecase"
)

const (
	avatarFormField = "avatar"
	maxAvatarBytes  = 5 << 20
)

// AccountUseCases is the account surface the handler needs.
type AccountUseCases interface {
	CreateAccount(ctx context.Context, cmd usecase.CreateAccountCommand) (either.Either[*validation.Notification, usecase.CreateAccountOutput], error)
	GetAccountByID(ctx context.Context, id string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	UpdateAccountRole(ctx context.Context, cmd usecase.UpdateAccountRoleCommand) (either.Either[*validation.Notification, usecase.UpdateAccountRoleOutput], error)
	UpdateAvatar(ctx context.Context, cmd usecase.UpdateAvatarCommand) (either.Either[*validation.Notification, usecase.UpdateAvatarOutput], error)
}

type AccountHandler struct {
	accounts AccountUseCases
}

func NewAccountHandler(accounts AccountUseCases) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("/:id", h.Get)
	r.DELETE("/:id", h.Delete)
	r.PATCH("/:id/role", h.UpdateRole)
	r.PATCH("/:id/avatar", h.UpdateAvatar)
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.accounts.CreateAccount(c.Request.Context(), usecase.CreateAccountCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	respond(c, result, err, http.StatusCreated, func(out usecase.CreateAccountOutput) any {
		c.Header("Location", "/api/v1/accounts/"+out.ID.String())
		return IDResponse{ID: out.ID.String()}
	})
}

func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.accounts.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(account))
}

func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.accounts.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) UpdateRole(c *gin.Context) {
	var req UpdateAccountRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.accounts.UpdateAccountRole(c.Request.Context(), usecase.UpdateAccountRoleCommand{
		AccountID: c.Param("id"),
		RoleID:    req.RoleID,
	})
	respond(c, result, err, http.StatusOK, func(out usecase.UpdateAccountRoleOutput) any {
		return IDResponse{ID: out.ID.String()}
	})
}

// UpdateAvatar accepts a multipart upload in the "avatar" field.
func (h *AccountHandler) UpdateAvatar(c *gin.Context) {
	resource, status, err := readAvatar(c)
	if err != nil {
		c.JSON(status, NewErrorResponse(c, err.Error()))
		return
	}

	result, err := h.accounts.UpdateAvatar(c.Request.Context(), usecase.UpdateAvatarCommand{
		AccountID: c.Param("id"),
		Resource:  resource,
	})
	respond(c, result, err, http.StatusOK, func(out usecase.UpdateAvatarOutput) any {
		return AvatarResponse{ID: out.ID.String(), AvatarURL: out.AvatarURL}
	})
}

func readAvatar(c *gin.Context) (domain.Resource, int, error) {
	header, err := c.FormFile(avatarFormField)
	if err != nil {
		return domain.Resource{}, http.StatusBadRequest, fmt.Errorf("multipart field %q is required", avatarFormField)
	}
	if header.Size > maxAvatarBytes {
		return domain.Resource{}, http.StatusRequestEntityTooLarge, fmt.Errorf("avatar must not exceed %d bytes", maxAvatarBytes)
	}

	file, err := header.Open()
	if err != nil {
		return domain.Resource{}, http.StatusBadRequest, fmt.Errorf("read avatar: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		return domain.Resource{}, http.StatusBadRequest, fmt.Errorf("read avatar: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}
	return domain.NewResource(content, contentType, header.Filename), http.StatusOK, nil
}
