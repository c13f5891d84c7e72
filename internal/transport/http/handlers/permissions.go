package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/usecase"
)

type PermissionUseCases interface {
	CreatePermission(ctx context.Context, cmd usecase.CreatePermissionCommand) (either.Either[*validation.Notification, usecase.PermissionOutput], error)
	UpdatePermission(ctx context.Context, cmd usecase.UpdatePermissionCommand) (either.Either[*validation.Notification, usecase.PermissionOutput], error)
	DeletePermission(ctx context.Context, id string) error
	GetPermissionByID(ctx context.Context, id string) (*domain.Permission, error)
	ListPermissions(ctx context.Context, query port.SearchQuery) (port.Pagination[*domain.Permission], error)
}

type PermissionHandler struct {
	permissions PermissionUseCases
}

func NewPermissionHandler(permissions PermissionUseCases) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

func (h *PermissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PATCH("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

func (h *PermissionHandler) Create(c *gin.Context) {
	var req CreatePermissionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.permissions.CreatePermission(c.Request.Context(), usecase.CreatePermissionCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	respond(c, result, err, http.StatusCreated, permissionIDResponse)
}

func (h *PermissionHandler) Update(c *gin.Context) {
	var req UpdatePermissionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.permissions.UpdatePermission(c.Request.Context(), usecase.UpdatePermissionCommand{
		ID:          c.Param("id"),
		Description: req.Description,
	})
	respond(c, result, err, http.StatusOK, permissionIDResponse)
}

func (h *PermissionHandler) Get(c *gin.Context) {
	permission, err := h.permissions.GetPermissionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPermissionResponse(permission))
}

func (h *PermissionHandler) List(c *gin.Context) {
	page, err := h.permissions.ListPermissions(c.Request.Context(), searchQuery(c, "name"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page, newPermissionResponse))
}

func (h *PermissionHandler) Delete(c *gin.Context) {
	if err := h.permissions.DeletePermission(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func permissionIDResponse(out usecase.PermissionOutput) any {
	return IDResponse{ID: out.ID.String()}
}
